package chain

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultVisibleChains is how many chains the selection UI shows before the
// "show more networks" expansion. Presentation policy only; the registry
// always returns the full set.
const DefaultVisibleChains = 6

// Chain describes a supported blockchain network.
type Chain struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	NativeSymbol string `json:"native_symbol"`
}

// Token describes an ERC-20 token deployed on a specific chain.
type Token struct {
	ChainID  uint64         `json:"chain_id"`
	Symbol   string         `json:"symbol"`
	Address  common.Address `json:"address"`
	Decimals int32          `json:"decimals"`
}

// Registry is the static table of supported chains and their token metadata.
// It is populated once at startup and never mutated afterwards.
type Registry struct {
	chains []Chain
	tokens map[uint64]map[string]Token
	icons  map[uint64]string
}

// NewRegistry returns the registry for the current deployment. Chain order is
// fixed: it drives both the default selection and the first page of the
// network picker.
func NewRegistry() *Registry {
	r := &Registry{
		chains: []Chain{
			{ID: 1, Name: "Ethereum", NativeSymbol: "ETH"},
			{ID: 137, Name: "Polygon", NativeSymbol: "MATIC"},
			{ID: 10, Name: "Optimism", NativeSymbol: "ETH"},
			{ID: 42161, Name: "Arbitrum", NativeSymbol: "ETH"},
			{ID: 8453, Name: "Base", NativeSymbol: "ETH"},
			{ID: 56, Name: "BNB Smart Chain", NativeSymbol: "BNB"},
			{ID: 42220, Name: "Celo", NativeSymbol: "CELO"},
			{ID: 534352, Name: "Scroll", NativeSymbol: "ETH"},
			{ID: 59144, Name: "Linea", NativeSymbol: "ETH"},
			{ID: 324, Name: "zkSync", NativeSymbol: "ETH"},
			{ID: 34443, Name: "Mode", NativeSymbol: "ETH"},
			{ID: 5000, Name: "Mantle", NativeSymbol: "MNT"},
			{ID: 100, Name: "Gnosis", NativeSymbol: "xDAI"},
		},
		tokens: map[uint64]map[string]Token{
			1: {
				"USDT": {ChainID: 1, Symbol: "USDT", Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6},
				"USDC": {ChainID: 1, Symbol: "USDC", Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6},
			},
			137: {
				"USDT": {ChainID: 137, Symbol: "USDT", Address: common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"), Decimals: 6},
				"USDC": {ChainID: 137, Symbol: "USDC", Address: common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), Decimals: 6},
			},
		},
		icons: map[uint64]string{
			1:      "/chain-icons/ethereum.svg",
			137:    "/chain-icons/polygon.svg",
			10:     "/chain-icons/optimism.svg",
			42161:  "/chain-icons/arbitrum.svg",
			8453:   "/chain-icons/base.svg",
			56:     "/chain-icons/bsc.svg",
			42220:  "/chain-icons/celo.svg",
			534352: "/chain-icons/scroll.svg",
			59144:  "/chain-icons/linea.svg",
			324:    "/chain-icons/zksync.svg",
			34443:  "/chain-icons/mode.svg",
			5000:   "/chain-icons/mantle.svg",
			100:    "/chain-icons/gnosis.svg",
		},
	}
	return r
}

// Chains returns every supported chain in registry order.
func (r *Registry) Chains() []Chain {
	out := make([]Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// ChainByID looks up a chain by its numeric id.
func (r *Registry) ChainByID(id uint64) (Chain, bool) {
	for _, c := range r.chains {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// TokensFor returns the ERC-20 tokens available on the given chain, sorted by
// symbol. An unknown chain id yields an empty set, never an error.
func (r *Registry) TokensFor(chainID uint64) []Token {
	bySymbol, ok := r.tokens[chainID]
	if !ok {
		return nil
	}
	out := make([]Token, 0, len(bySymbol))
	for _, t := range bySymbol {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// TokenFor resolves a token descriptor by (chain id, symbol).
func (r *Registry) TokenFor(chainID uint64, symbol string) (Token, bool) {
	t, ok := r.tokens[chainID][symbol]
	return t, ok
}

// IconFor returns the icon resource path for a chain, falling back to the
// default icon for unmapped chains.
func (r *Registry) IconFor(chainID uint64) string {
	if icon, ok := r.icons[chainID]; ok {
		return icon
	}
	return "/chain-icons/default.svg"
}
