package chain

import "testing"

func TestRegistryOrderIsStable(t *testing.T) {
	r := NewRegistry()
	chains := r.Chains()
	if len(chains) != 13 {
		t.Fatalf("expected 13 chains, got %d", len(chains))
	}
	if chains[0].ID != 1 || chains[0].NativeSymbol != "ETH" {
		t.Errorf("expected Ethereum first, got %+v", chains[0])
	}
	if chains[1].ID != 137 {
		t.Errorf("expected Polygon second, got %+v", chains[1])
	}
	if DefaultVisibleChains >= len(chains) {
		t.Errorf("default page should be a strict subset of the chain list")
	}
}

func TestTokensForKnownChain(t *testing.T) {
	r := NewRegistry()
	tokens := r.TokensFor(1)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 mainnet tokens, got %d", len(tokens))
	}
	// Sorted by symbol: USDC before USDT.
	if tokens[0].Symbol != "USDC" || tokens[1].Symbol != "USDT" {
		t.Errorf("unexpected token order: %v, %v", tokens[0].Symbol, tokens[1].Symbol)
	}
	for _, tok := range tokens {
		if tok.Decimals != 6 {
			t.Errorf("%s: expected 6 decimals, got %d", tok.Symbol, tok.Decimals)
		}
	}
}

func TestTokensForUnknownChainIsEmpty(t *testing.T) {
	r := NewRegistry()
	if tokens := r.TokensFor(999999); len(tokens) != 0 {
		t.Fatalf("expected empty token set for unknown chain, got %d entries", len(tokens))
	}
}

func TestTokenForResolvesDescriptor(t *testing.T) {
	r := NewRegistry()
	tok, ok := r.TokenFor(137, "USDC")
	if !ok {
		t.Fatal("expected polygon USDC descriptor")
	}
	if tok.Address.Hex() != "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174" {
		t.Errorf("unexpected address: %s", tok.Address.Hex())
	}
	if _, ok := r.TokenFor(1, "DAI"); ok {
		t.Error("DAI is not configured on mainnet")
	}
}

func TestIconForFallsBack(t *testing.T) {
	r := NewRegistry()
	if got := r.IconFor(1); got != "/chain-icons/ethereum.svg" {
		t.Errorf("unexpected mainnet icon: %s", got)
	}
	if got := r.IconFor(424242); got != "/chain-icons/default.svg" {
		t.Errorf("expected default icon fallback, got %s", got)
	}
}
