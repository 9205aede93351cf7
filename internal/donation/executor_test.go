package donation

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"youbuidl/internal/chain"
)

type contractCall struct {
	contract common.Address
	method   string
	amount   *big.Int
}

type fakeSession struct {
	addr    common.Address
	chainID uint64

	switchErr   error
	nativeErr   error
	approveErr  error
	transferErr error

	switchedTo    []uint64
	nativeCalls   []*big.Int
	contractCalls []contractCall
}

func (s *fakeSession) Address() common.Address { return s.addr }

func (s *fakeSession) CurrentChainID() uint64 { return s.chainID }

func (s *fakeSession) SwitchChain(_ context.Context, chainID uint64) error {
	if s.switchErr != nil {
		return s.switchErr
	}
	s.switchedTo = append(s.switchedTo, chainID)
	s.chainID = chainID
	return nil
}

func (s *fakeSession) SendNativeTransfer(_ context.Context, _ common.Address, amountWei *big.Int) (common.Hash, error) {
	if s.nativeErr != nil {
		return common.Hash{}, s.nativeErr
	}
	s.nativeCalls = append(s.nativeCalls, amountWei)
	return common.HexToHash("0xaa01"), nil
}

func (s *fakeSession) CallContract(_ context.Context, contract common.Address, method string, args ...any) (common.Hash, error) {
	switch method {
	case "approve":
		if s.approveErr != nil {
			return common.Hash{}, s.approveErr
		}
	case "transfer":
		if s.transferErr != nil {
			return common.Hash{}, s.transferErr
		}
	}
	amount, _ := args[1].(*big.Int)
	s.contractCalls = append(s.contractCalls, contractCall{contract: contract, method: method, amount: amount})
	if method == "approve" {
		return common.HexToHash("0xbb01"), nil
	}
	return common.HexToHash("0xbb02"), nil
}

func newTestExecutor() *Executor {
	return NewExecutor(chain.NewRegistry(), zerolog.Nop())
}

func validIntent() Intent {
	return Intent{
		ChainID:     1,
		TokenSymbol: NativeToken,
		Amount:      "0.5",
		Recipient:   "0x1111111111111111111111111111111111111111",
	}
}

func TestExecuteNativeTransferUsesWeiPrecision(t *testing.T) {
	session := &fakeSession{addr: common.HexToAddress("0x2222222222222222222222222222222222222222"), chainID: 1}

	result, err := newTestExecutor().Execute(context.Background(), validIntent(), session)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.TxHash == "" {
		t.Fatal("expected a transaction hash")
	}
	if len(session.nativeCalls) != 1 {
		t.Fatalf("expected exactly one native transfer, got %d", len(session.nativeCalls))
	}
	want := new(big.Int)
	want.SetString("500000000000000000", 10)
	if session.nativeCalls[0].Cmp(want) != 0 {
		t.Errorf("expected 0.5 ETH as %s wei, got %s", want, session.nativeCalls[0])
	}
	if len(session.contractCalls) != 0 {
		t.Errorf("native transfer must not issue contract calls, got %d", len(session.contractCalls))
	}
}

func TestExecuteERC20ApprovesBeforeTransfer(t *testing.T) {
	session := &fakeSession{addr: common.HexToAddress("0x2222222222222222222222222222222222222222"), chainID: 1}
	intent := validIntent()
	intent.TokenSymbol = "USDC"
	intent.Amount = "10"

	result, err := newTestExecutor().Execute(context.Background(), intent, session)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(session.contractCalls) != 2 {
		t.Fatalf("expected approve and transfer, got %d calls", len(session.contractCalls))
	}
	if session.contractCalls[0].method != "approve" || session.contractCalls[1].method != "transfer" {
		t.Fatalf("wrong call order: %s then %s", session.contractCalls[0].method, session.contractCalls[1].method)
	}
	// USDC has 6 decimals.
	want := big.NewInt(10000000)
	for _, call := range session.contractCalls {
		if call.amount.Cmp(want) != 0 {
			t.Errorf("%s: expected %s units, got %s", call.method, want, call.amount)
		}
	}
	if result.ApprovalHash == "" {
		t.Error("expected approval hash on ERC-20 result")
	}
}

func TestExecuteERC20ApprovalFailureSkipsTransfer(t *testing.T) {
	session := &fakeSession{
		addr:       common.HexToAddress("0x2222222222222222222222222222222222222222"),
		chainID:    1,
		approveErr: errors.New("user rejected approval"),
	}
	intent := validIntent()
	intent.TokenSymbol = "USDT"
	intent.Amount = "5"

	_, err := newTestExecutor().Execute(context.Background(), intent, session)
	if KindOf(err) != KindApprovalFailed {
		t.Fatalf("expected approval failure, got %v", err)
	}
	for _, call := range session.contractCalls {
		if call.method == "transfer" {
			t.Fatal("transfer must not be issued after a failed approval")
		}
	}
	var fe *FlowError
	if !errors.As(err, &fe) || fe.Message != "user rejected approval" {
		t.Errorf("provider message not preserved: %v", err)
	}
}

func TestExecuteSelfDonationRejectedWithoutNetworkCalls(t *testing.T) {
	sender := common.HexToAddress("0x1111111111111111111111111111111111111111")
	session := &fakeSession{addr: sender, chainID: 1}
	intent := validIntent()
	// Same address as the sender, different case.
	intent.Recipient = "0X1111111111111111111111111111111111111111"

	_, err := newTestExecutor().Execute(context.Background(), intent, session)
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if len(session.nativeCalls)+len(session.contractCalls)+len(session.switchedTo) != 0 {
		t.Fatal("validation failures must not reach the network")
	}
}

func TestExecuteSwitchesChainWhenNeeded(t *testing.T) {
	session := &fakeSession{addr: common.HexToAddress("0x2222222222222222222222222222222222222222"), chainID: 137}

	if _, err := newTestExecutor().Execute(context.Background(), validIntent(), session); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(session.switchedTo) != 1 || session.switchedTo[0] != 1 {
		t.Fatalf("expected a switch to chain 1, got %v", session.switchedTo)
	}
}

func TestExecuteChainSwitchRejection(t *testing.T) {
	session := &fakeSession{
		addr:      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		chainID:   137,
		switchErr: errors.New("user declined switch"),
	}

	_, err := newTestExecutor().Execute(context.Background(), validIntent(), session)
	if KindOf(err) != KindChainSwitchRejected {
		t.Fatalf("expected chain switch rejection, got %v", err)
	}
	if len(session.nativeCalls) != 0 {
		t.Fatal("no transfer may follow a rejected chain switch")
	}
}

func TestExecuteUnsupportedToken(t *testing.T) {
	session := &fakeSession{addr: common.HexToAddress("0x2222222222222222222222222222222222222222"), chainID: 1}
	intent := validIntent()
	intent.TokenSymbol = "DAI"

	_, err := newTestExecutor().Execute(context.Background(), intent, session)
	if KindOf(err) != KindUnsupportedToken {
		t.Fatalf("expected unsupported token failure, got %v", err)
	}
}
