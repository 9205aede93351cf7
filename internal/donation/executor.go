package donation

import (
	"context"
	"fmt"

	"youbuidl/internal/chain"
	"youbuidl/internal/infra"
	"youbuidl/internal/wallet"
)

// nativeDecimals is the precision of base-currency transfers on every
// supported chain.
const nativeDecimals = 18

// Result carries the outcome of a submitted transfer.
type Result struct {
	// TxHash is the hash of the value-moving transaction.
	TxHash string
	// ApprovalHash is set for ERC-20 donations, where an allowance is
	// granted before funds move.
	ApprovalHash string
}

// Executor turns a validated intent into on-chain transactions through a
// wallet session. It mutates no local state: until a hash is returned the
// only side effects are the transactions themselves.
type Executor struct {
	registry *chain.Registry
	logger   infra.Logger
}

func NewExecutor(registry *chain.Registry, logger infra.Logger) *Executor {
	return &Executor{registry: registry, logger: logger}
}

// Execute submits the transfer described by intent. ERC-20 donations are a
// strict approve-then-transfer sequence: the transfer is never issued unless
// the approval is confirmed. Nothing is retried; a failure ends the attempt
// and the user must resubmit.
func (e *Executor) Execute(ctx context.Context, intent Intent, session wallet.Session) (Result, error) {
	if err := intent.Validate(session.Address()); err != nil {
		return Result{}, err
	}

	if session.CurrentChainID() != intent.ChainID {
		if err := session.SwitchChain(ctx, intent.ChainID); err != nil {
			return Result{}, flowErr(KindChainSwitchRejected, err)
		}
	}

	amount := intent.amountDecimal()
	recipient := intent.RecipientAddress()

	if intent.TokenSymbol == NativeToken {
		wei := amount.Shift(nativeDecimals).BigInt()
		hash, err := session.SendNativeTransfer(ctx, recipient, wei)
		if err != nil {
			return Result{}, flowErr(KindTransferFailed, err)
		}
		e.logger.Info().
			Uint64("chain_id", intent.ChainID).
			Str("hash", hash.Hex()).
			Str("amount", amount.String()).
			Msg("native donation submitted")
		return Result{TxHash: hash.Hex()}, nil
	}

	token, ok := e.registry.TokenFor(intent.ChainID, intent.TokenSymbol)
	if !ok {
		return Result{}, &FlowError{
			Kind:    KindUnsupportedToken,
			Message: fmt.Sprintf("token %s is not supported on chain %d", intent.TokenSymbol, intent.ChainID),
		}
	}

	units := amount.Shift(token.Decimals).BigInt()

	approvalHash, err := session.CallContract(ctx, token.Address, "approve", recipient, units)
	if err != nil {
		// The allowance was never granted, so no transfer may follow.
		return Result{}, flowErr(KindApprovalFailed, err)
	}

	transferHash, err := session.CallContract(ctx, token.Address, "transfer", recipient, units)
	if err != nil {
		return Result{}, flowErr(KindTransferFailed, err)
	}

	e.logger.Info().
		Uint64("chain_id", intent.ChainID).
		Str("token", token.Symbol).
		Str("hash", transferHash.Hex()).
		Str("amount", amount.String()).
		Msg("token donation submitted")

	return Result{TxHash: transferHash.Hex(), ApprovalHash: approvalHash.Hex()}, nil
}
