package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotConnected is returned when an operation requires an active chain
	// connection and none has been established yet.
	ErrNotConnected = errors.New("wallet: session is not connected")

	// ErrChainUnavailable is returned by SwitchChain when no endpoint is
	// configured for the requested chain.
	ErrChainUnavailable = errors.New("wallet: no endpoint for requested chain")

	// ErrReverted is returned when a submitted contract call was mined but
	// reverted on chain.
	ErrReverted = errors.New("wallet: transaction reverted")
)

// Session is the connected-wallet surface the donation flow consumes. The
// service never manages keys or signatures beyond this boundary.
//
// SendNativeTransfer returns as soon as the transaction is broadcast.
// CallContract additionally waits until the call is mined and reports
// ErrReverted when it did not succeed, so callers can sequence dependent
// calls (an ERC-20 transfer must not be issued before its approval is
// confirmed).
type Session interface {
	Address() common.Address
	CurrentChainID() uint64
	SwitchChain(ctx context.Context, chainID uint64) error
	SendNativeTransfer(ctx context.Context, to common.Address, amountWei *big.Int) (common.Hash, error)
	CallContract(ctx context.Context, contract common.Address, method string, args ...any) (common.Hash, error)
}
