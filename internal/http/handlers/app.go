package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"youbuidl/internal/chain"
	"youbuidl/internal/donation"
	"youbuidl/internal/infra"
	"youbuidl/internal/orbis"
)

// FeedReader is the slice of the content store the feed endpoints need.
type FeedReader interface {
	GetPosts(ctx context.Context, q orbis.PostsQuery) ([]orbis.Post, error)
}

// PointsAwarder credits activity points to a profile.
type PointsAwarder interface {
	Award(ctx context.Context, did string, amount int64) (int64, error)
}

// PostGenerator drafts post bodies from a prompt.
type PostGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReceiptJournal keeps donation records whose content-store write failed so
// an operator can replay them later.
type ReceiptJournal interface {
	SavePending(ctx context.Context, rec donation.Record) (string, error)
}

// App carries the handlers' dependencies.
type App struct {
	Registry   *chain.Registry
	Dialogs    *donation.Dialogs
	Ledger     *donation.Ledger
	Feed       FeedReader
	Points     PointsAwarder
	Generator  PostGenerator
	Journal    ReceiptJournal
	Logger     infra.Logger
	AppContext string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// donorDID identifies the caller. Wallet-based sign-in happens in the web
// client; the API trusts the DID header it forwards.
func (a *App) donorDID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Donor-DID"))
}
