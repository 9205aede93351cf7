package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"youbuidl/internal/infra"
)

// ABI fragment covering the two calls the donation flow issues.
const erc20ABI = `[
  {"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const (
	nativeGasLimit   = uint64(21000)
	contractGasLimit = uint64(100000)
	receiptPollEvery = 2 * time.Second
)

// RPCSession implements Session against per-chain JSON-RPC endpoints, signing
// EIP-1559 transactions with a single configured key. Switching chains swaps
// the dialed endpoint; the key stays the same across chains.
type RPCSession struct {
	endpoints     map[uint64]string
	key           *ecdsa.PrivateKey
	from          common.Address
	erc20         abi.ABI
	confirmations uint64
	logger        infra.Logger

	mu      sync.Mutex
	chainID uint64
	client  *ethclient.Client
}

// NewRPCSession builds a session from a hex-encoded private key and a chain
// id to endpoint map. No connection is made until the first SwitchChain.
func NewRPCSession(endpoints map[uint64]string, keyHex string, confirmations uint64, logger infra.Logger) (*RPCSession, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("wallet: parse private key: %w", err)
	}
	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("wallet: key does not derive an ECDSA public key")
	}
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("wallet: parse erc20 abi: %w", err)
	}
	return &RPCSession{
		endpoints:     endpoints,
		key:           key,
		from:          crypto.PubkeyToAddress(*pub),
		erc20:         parsed,
		confirmations: confirmations,
		logger:        logger,
	}, nil
}

// Address returns the sender address derived from the configured key.
func (s *RPCSession) Address() common.Address {
	return s.from
}

// CurrentChainID returns the chain the session is connected to, or zero when
// not yet connected.
func (s *RPCSession) CurrentChainID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

// SwitchChain connects the session to the endpoint configured for chainID.
// The node's reported chain id must match the requested one.
func (s *RPCSession) SwitchChain(ctx context.Context, chainID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chainID == chainID && s.client != nil {
		return nil
	}
	endpoint, ok := s.endpoints[chainID]
	if !ok {
		return fmt.Errorf("%w: chain %d", ErrChainUnavailable, chainID)
	}
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("wallet: dial %d: %w", chainID, err)
	}
	reported, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("wallet: chain id of %d: %w", chainID, err)
	}
	if reported.Uint64() != chainID {
		client.Close()
		return fmt.Errorf("wallet: endpoint for chain %d reports chain %s", chainID, reported)
	}
	if s.client != nil {
		s.client.Close()
	}
	s.client = client
	s.chainID = chainID
	s.logger.Info().Uint64("chain_id", chainID).Msg("wallet session switched chain")
	return nil
}

// SendNativeTransfer broadcasts a base-currency transfer and returns its hash
// without waiting for it to be mined.
func (s *RPCSession) SendNativeTransfer(ctx context.Context, to common.Address, amountWei *big.Int) (common.Hash, error) {
	tx, err := s.submit(ctx, to, amountWei, nil, nativeGasLimit)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// CallContract packs and submits an ERC-20 call, then waits for its receipt.
// It returns ErrReverted when the call was mined but did not succeed.
func (s *RPCSession) CallContract(ctx context.Context, contract common.Address, method string, args ...any) (common.Hash, error) {
	data, err := s.erc20.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet: pack %s: %w", method, err)
	}
	tx, err := s.submit(ctx, contract, big.NewInt(0), data, contractGasLimit)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.waitMined(ctx, tx.Hash()); err != nil {
		return tx.Hash(), err
	}
	return tx.Hash(), nil
}

func (s *RPCSession) submit(ctx context.Context, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Transaction, error) {
	s.mu.Lock()
	client, chainID := s.client, s.chainID
	s.mu.Unlock()
	if client == nil {
		return nil, ErrNotConnected
	}

	nonce, err := client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("wallet: nonce: %w", err)
	}
	gasTipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: gas tip: %w", err)
	}
	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet: head: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	// MaxFeePerGas = 2*BaseFee + Tip keeps the transaction viable if the
	// base fee rises before inclusion.
	gasFeeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), gasTipCap)

	id := new(big.Int).SetUint64(chainID)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   id,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(id), s.key)
	if err != nil {
		return nil, fmt.Errorf("wallet: sign: %w", err)
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("wallet: broadcast: %w", err)
	}
	s.logger.Info().
		Uint64("chain_id", chainID).
		Uint64("nonce", nonce).
		Str("hash", signed.Hash().Hex()).
		Msg("transaction broadcast")
	return signed, nil
}

// waitMined polls for the receipt until the transaction has the required
// number of confirmations. The wait is bounded only by ctx: the user's wallet
// interaction may legitimately take a long time and this layer must not
// impose its own deadline.
func (s *RPCSession) waitMined(ctx context.Context, hash common.Hash) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return ErrNotConnected
	}

	ticker := time.NewTicker(receiptPollEvery)
	defer ticker.Stop()
	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return ErrReverted
			}
			latest, err := client.BlockNumber(ctx)
			if mined := receipt.BlockNumber.Uint64(); err == nil && latest >= mined && latest-mined >= s.confirmations {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

var _ Session = (*RPCSession)(nil)
