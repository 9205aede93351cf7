package donation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"youbuidl/internal/infra"
	"youbuidl/internal/orbis"
)

// ContentReader is the slice of the content store the ledger needs.
type ContentReader interface {
	GetPosts(ctx context.Context, q orbis.PostsQuery) ([]orbis.Post, error)
}

// Totals is the derived per-token view of a post's donations. It is computed
// fresh on every read and never stored.
type Totals struct {
	ByToken      map[string]decimal.Decimal `json:"by_token"`
	EstimatedUSD decimal.Decimal            `json:"estimated_usd"`
	FormattedUSD string                     `json:"formatted_usd"`
}

// Ledger aggregates recorded donations for a post. Amount and token inside a
// record are client-supplied and not verified against the referenced
// transaction; the totals inherit that trust (a deliberate carry-over, not
// an oversight in this layer).
type Ledger struct {
	store   ContentReader
	rates   RateTable
	logger  infra.Logger
	printer *message.Printer
}

func NewLedger(store ContentReader, rates RateTable, logger infra.Logger) *Ledger {
	return &Ledger{
		store:   store,
		rates:   rates,
		logger:  logger,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
}

// TotalsFor sums the donation entries recorded under postID. It never
// returns an error: feed rendering must not block on ledger reads, so fetch
// or decode failures degrade to all-zero totals.
func (l *Ledger) TotalsFor(ctx context.Context, postID string) Totals {
	totals := l.zeroTotals()

	posts, err := l.store.GetPosts(ctx, orbis.PostsQuery{Context: postID, OnlyMaster: false})
	if err != nil {
		l.logger.Warn().Err(err).Str("post_id", postID).Msg("donation totals unavailable, rendering zeros")
		return l.finish(totals)
	}

	for _, post := range posts {
		data, ok := decodeDonation(post)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(data.Amount)
		if err != nil || !amount.IsPositive() {
			continue
		}
		current, known := totals.ByToken[data.Token]
		if !known {
			// Unrecognized tokens are excluded rather than failing the read.
			continue
		}
		totals.ByToken[data.Token] = current.Add(amount)
	}

	return l.finish(totals)
}

func (l *Ledger) zeroTotals() Totals {
	byToken := make(map[string]decimal.Decimal, len(l.rates.Symbols()))
	for _, symbol := range l.rates.Symbols() {
		byToken[symbol] = decimal.Zero
	}
	return Totals{ByToken: byToken}
}

func (l *Ledger) finish(totals Totals) Totals {
	sum := decimal.Zero
	for symbol, amount := range totals.ByToken {
		if rate, ok := l.rates.USDRate(symbol); ok {
			sum = sum.Add(amount.Mul(rate))
		}
	}
	totals.EstimatedUSD = sum
	usd, _ := sum.Round(2).Float64()
	totals.FormattedUSD = l.printer.Sprintf("$%.2f", usd)
	return totals
}

// decodeDonation extracts a donation payload from a child entry. Amounts
// written by older clients may be JSON numbers instead of strings; both are
// accepted. Entries missing amount or token are reported as malformed.
func decodeDonation(post orbis.Post) (Data, bool) {
	if len(post.Content.Data) == 0 {
		return Data{}, false
	}
	var raw struct {
		Type        string          `json:"type"`
		Amount      json.RawMessage `json:"amount"`
		Token       string          `json:"token"`
		Chain       uint64          `json:"chain"`
		Transaction string          `json:"transaction"`
	}
	if err := json.Unmarshal(post.Content.Data, &raw); err != nil {
		return Data{}, false
	}
	amount := strings.Trim(strings.TrimSpace(string(raw.Amount)), `"`)
	if raw.Type != donationType || amount == "" || raw.Token == "" {
		return Data{}, false
	}
	return Data{
		Type:        raw.Type,
		Amount:      amount,
		Token:       raw.Token,
		Chain:       raw.Chain,
		Transaction: raw.Transaction,
	}, true
}
