package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"youbuidl/internal/donation"
	"youbuidl/internal/orbis"
)

type feedItem struct {
	StreamID  string          `json:"stream_id"`
	Creator   string          `json:"creator"`
	Body      string          `json:"body"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Donations donation.Totals `json:"donations"`
}

// FeedList returns the app's top-level posts with their donation totals.
// Totals degrade to zeros when the ledger cannot read the store; the feed
// never fails because of them.
func (a *App) FeedList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	posts, err := a.Feed.GetPosts(r.Context(), orbis.PostsQuery{
		Context:    a.AppContext,
		OnlyMaster: true,
		Page:       page,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("feed load failed")
		a.error(w, http.StatusBadGateway, "upstream", "failed to load feed")
		return
	}

	items := make([]feedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, feedItem{
			StreamID:  p.StreamID,
			Creator:   p.Creator,
			Body:      p.Content.Body,
			Data:      p.Content.Data,
			Timestamp: p.Timestamp,
			Donations: a.Ledger.TotalsFor(r.Context(), p.StreamID),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "page": page})
}

// PostDonations returns the donation totals for one post.
func (a *App) PostDonations(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "post id is required")
		return
	}
	a.json(w, http.StatusOK, a.Ledger.TotalsFor(r.Context(), postID))
}
