package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"youbuidl/internal/chain"
	"youbuidl/internal/donation"
	"youbuidl/internal/http/handlers"
	"youbuidl/internal/orbis"
)

type testEnv struct {
	router  http.Handler
	store   *fakeStore
	journal *fakeJournal
}

func newTestEnv() *testEnv {
	logger := zerolog.Nop()
	registry := chain.NewRegistry()
	store := &fakeStore{}
	journal := &fakeJournal{}
	session := &fakeSession{chainID: 1, address: common.HexToAddress("0x1111111111111111111111111111111111111111")}

	app := &handlers.App{
		Registry:   registry,
		Dialogs:    donation.NewDialogs(registry, donation.NewExecutor(registry, logger), donation.NewRecorder(store, registry, logger), session, logger),
		Ledger:     donation.NewLedger(store, donation.DefaultRates(), logger),
		Feed:       store,
		Journal:    journal,
		Logger:     logger,
		AppContext: "app-ctx",
	}
	return &testEnv{
		router:  NewRouter(app, Options{Logger: logger}),
		store:   store,
		journal: journal,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Donor-DID", "did:pkh:alice")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func openDialog(t *testing.T, env *testEnv) donation.Snapshot {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/v1/donations/dialogs",
		`{"post_id":"post-1","recipient":"0x2222222222222222222222222222222222222222","category":"projects"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("open dialog: %d: %s", rr.Code, rr.Body.String())
	}
	var snap donation.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestDonationFlowSucceeds(t *testing.T) {
	env := newTestEnv()
	snap := openDialog(t, env)

	rr := env.do(t, http.MethodPut, "/v1/donations/dialogs/"+snap.ID,
		`{"chain_id":1,"token_symbol":"NATIVE","amount":"0.5","recipient":"0x2222222222222222222222222222222222222222"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update dialog: %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/v1/donations/dialogs/"+snap.ID+"/submit", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("submit: %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Dialog    donation.Snapshot `json:"dialog"`
		ReceiptID string            `json:"receipt_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Dialog.State != donation.StateSucceeded {
		t.Fatalf("expected succeeded, got %+v", resp.Dialog)
	}
	if resp.ReceiptID != "" || len(env.journal.saved) != 0 {
		t.Error("journal must stay untouched on a clean flow")
	}
	if len(env.store.created) != 1 {
		t.Fatalf("expected 1 record write, got %d", len(env.store.created))
	}
	if env.store.created[0].Body != "Donated 0.5 ETH" {
		t.Errorf("unexpected record body: %q", env.store.created[0].Body)
	}
}

func TestDonationRecordFailureJournalsReceipt(t *testing.T) {
	env := newTestEnv()
	env.store.writeErr = errors.New("store down")
	snap := openDialog(t, env)

	env.do(t, http.MethodPut, "/v1/donations/dialogs/"+snap.ID,
		`{"chain_id":1,"token_symbol":"NATIVE","amount":"0.5","recipient":"0x2222222222222222222222222222222222222222"}`)

	rr := env.do(t, http.MethodPost, "/v1/donations/dialogs/"+snap.ID+"/submit", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("submit: %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Dialog    donation.Snapshot `json:"dialog"`
		ReceiptID string            `json:"receipt_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Dialog.State != donation.StateSucceededRecordPending {
		t.Fatalf("expected record pending, got %+v", resp.Dialog)
	}
	if resp.ReceiptID == "" || len(env.journal.saved) != 1 {
		t.Fatal("expected the receipt to be journaled")
	}
	if env.journal.saved[0].TransactionHash != resp.Dialog.TxHash {
		t.Errorf("journaled wrong transaction: %+v", env.journal.saved[0])
	}

	// The store recovers; replaying the record step finishes the flow
	// without touching the chain again.
	env.store.writeErr = nil
	rr = env.do(t, http.MethodPost, "/v1/donations/dialogs/"+snap.ID+"/retry-record", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("retry-record: %d: %s", rr.Code, rr.Body.String())
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Dialog.State != donation.StateSucceeded {
		t.Fatalf("expected succeeded after replay, got %+v", resp.Dialog)
	}
}

func TestDialogCancelAfterOpen(t *testing.T) {
	env := newTestEnv()
	snap := openDialog(t, env)

	rr := env.do(t, http.MethodDelete, "/v1/donations/dialogs/"+snap.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("cancel: %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/v1/donations/dialogs/"+snap.ID+"/submit", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after cancel, got %d", rr.Code)
	}
}

func TestChainTokensRoute(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/v1/chains/1/tokens", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("tokens: %d: %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Items []struct {
			Symbol string `json:"symbol"`
			Native bool   `json:"native"`
		} `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 3 {
		t.Fatalf("expected ETH, USDT, USDC, got %+v", payload.Items)
	}
	if !payload.Items[0].Native || payload.Items[0].Symbol != "ETH" {
		t.Errorf("native token must lead: %+v", payload.Items[0])
	}

	rr = env.do(t, http.MethodGet, "/v1/chains/999/tokens", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown chain, got %d", rr.Code)
	}
}

func TestPostDonationsRoute(t *testing.T) {
	env := newTestEnv()
	data, _ := json.Marshal(donation.Data{Type: "donation", Amount: "10", Token: "USDC", Chain: 137, Transaction: "0xabc"})
	env.store.children = map[string][]orbis.Post{
		"post-1": {{StreamID: "child-1", Content: orbis.Content{Body: "Donated 10 USDC", Data: data}}},
	}

	rr := env.do(t, http.MethodGet, "/v1/posts/post-1/donations", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("donations: %d: %s", rr.Code, rr.Body.String())
	}
	var totals struct {
		FormattedUSD string `json:"formatted_usd"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&totals); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if totals.FormattedUSD != "$10.00" {
		t.Errorf("unexpected totals: %q", totals.FormattedUSD)
	}
}

type fakeStore struct {
	feed     []orbis.Post
	children map[string][]orbis.Post
	created  []orbis.NewPost
	writeErr error
}

func (f *fakeStore) GetPosts(_ context.Context, q orbis.PostsQuery) ([]orbis.Post, error) {
	if q.OnlyMaster {
		return f.feed, nil
	}
	return f.children[q.Context], nil
}

func (f *fakeStore) CreatePost(_ context.Context, post orbis.NewPost) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.created = append(f.created, post)
	return fmt.Sprintf("stream-%d", len(f.created)), nil
}

type fakeJournal struct {
	saved []donation.Record
}

func (f *fakeJournal) SavePending(_ context.Context, rec donation.Record) (string, error) {
	f.saved = append(f.saved, rec)
	return fmt.Sprintf("receipt-%d", len(f.saved)), nil
}

type fakeSession struct {
	chainID uint64
	address common.Address
}

func (f *fakeSession) Address() common.Address { return f.address }

func (f *fakeSession) CurrentChainID() uint64 { return f.chainID }

func (f *fakeSession) SwitchChain(_ context.Context, chainID uint64) error {
	f.chainID = chainID
	return nil
}

func (f *fakeSession) SendNativeTransfer(context.Context, common.Address, *big.Int) (common.Hash, error) {
	return common.HexToHash("0xabc"), nil
}

func (f *fakeSession) CallContract(context.Context, common.Address, string, ...any) (common.Hash, error) {
	return common.HexToHash("0xdef"), nil
}
