package donation

import (
	"context"
	"fmt"
	"time"

	"youbuidl/internal/chain"
	"youbuidl/internal/infra"
	"youbuidl/internal/orbis"
)

// donationType tags child entries that carry a donation payload.
const donationType = "donation"

// Data is the structured payload attached to a donation record in the
// content store. Field names are part of the stored format.
type Data struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Token       string `json:"token"`
	Chain       uint64 `json:"chain"`
	Transaction string `json:"transaction"`
}

// Record is a donation fact the content store owns once written. The service
// keeps no authoritative copy; StreamID is the store's id for the entry.
type Record struct {
	TransactionHash string    `json:"transaction_hash"`
	Amount          string    `json:"amount"`
	Token           string    `json:"token"`
	ChainID         uint64    `json:"chain_id"`
	PostID          string    `json:"post_id"`
	DonorDID        string    `json:"donor_did"`
	RecordedAt      time.Time `json:"recorded_at"`
	StreamID        string    `json:"stream_id,omitempty"`
}

// ContentWriter is the slice of the content store the recorder needs.
type ContentWriter interface {
	CreatePost(ctx context.Context, post orbis.NewPost) (string, error)
}

// Recorder persists completed transfers as typed child entries under the
// donated-to post.
type Recorder struct {
	store    ContentWriter
	registry *chain.Registry
	logger   infra.Logger
	now      func() time.Time
}

func NewRecorder(store ContentWriter, registry *chain.Registry, logger infra.Logger) *Recorder {
	return &Recorder{store: store, registry: registry, logger: logger, now: time.Now}
}

// Record writes the receipt for a confirmed transfer. The transfer has
// already succeeded by the time this runs, so a store failure is surfaced as
// KindPersistenceFailed together with the fully-populated record: callers
// must treat the donation as succeeded and may replay just the write.
func (r *Recorder) Record(ctx context.Context, result Result, intent Intent, postID, donorDID string) (Record, error) {
	rec := Record{
		TransactionHash: result.TxHash,
		Amount:          intent.amountDecimal().String(),
		Token:           r.displaySymbol(intent),
		ChainID:         intent.ChainID,
		PostID:          postID,
		DonorDID:        donorDID,
		RecordedAt:      r.now().UTC(),
	}
	return r.write(ctx, rec)
}

// Replay re-attempts the content-store write for an already-built record.
// It never touches the chain: the transaction hash inside rec is reused.
func (r *Recorder) Replay(ctx context.Context, rec Record) (Record, error) {
	return r.write(ctx, rec)
}

func (r *Recorder) write(ctx context.Context, rec Record) (Record, error) {
	streamID, err := r.store.CreatePost(ctx, orbis.NewPost{
		Context: rec.PostID,
		Body:    fmt.Sprintf("Donated %s %s", rec.Amount, rec.Token),
		Data: Data{
			Type:        donationType,
			Amount:      rec.Amount,
			Token:       rec.Token,
			Chain:       rec.ChainID,
			Transaction: rec.TransactionHash,
		},
	})
	if err != nil {
		r.logger.Error().Err(err).
			Str("post_id", rec.PostID).
			Str("tx", rec.TransactionHash).
			Msg("donation receipt write failed")
		return rec, flowErr(KindPersistenceFailed, err)
	}
	rec.StreamID = streamID
	return rec, nil
}

// displaySymbol resolves the symbol stored in the record: the chain's native
// currency for native transfers, the token symbol otherwise.
func (r *Recorder) displaySymbol(intent Intent) string {
	if intent.TokenSymbol != NativeToken {
		return intent.TokenSymbol
	}
	if c, ok := r.registry.ChainByID(intent.ChainID); ok {
		return c.NativeSymbol
	}
	return intent.TokenSymbol
}
