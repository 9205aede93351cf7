// Package journal keeps a local copy of donation receipts whose content-store
// write failed. The content store stays the system of record; rows here exist
// only so an operator can replay the record step for a transfer that already
// confirmed on chain. Nothing replays automatically.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"youbuidl/internal/donation"
	"youbuidl/internal/infra"
	"youbuidl/internal/sqlinline"
)

// Receipt is a journaled donation record plus its journal identity.
type Receipt struct {
	ID        string          `json:"id"`
	Record    donation.Record `json:"record"`
	CreatedAt time.Time       `json:"created_at"`
}

// Journal persists pending receipts through a marker-tagged SQL executor.
type Journal struct {
	sql    infra.SQLExecutor
	logger zerolog.Logger
}

func New(sql infra.SQLExecutor, logger zerolog.Logger) *Journal {
	return &Journal{sql: sql, logger: logger}
}

// SavePending stores a record whose content-store write failed and returns
// the journal row id.
func (j *Journal) SavePending(ctx context.Context, rec donation.Record) (string, error) {
	var id string
	err := j.sql.QueryRow(ctx, sqlinline.QInsertReceipt,
		rec.TransactionHash, rec.ChainID, rec.Token, rec.Amount, rec.PostID, rec.DonorDID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("journal: save pending receipt: %w", err)
	}
	j.logger.Info().
		Str("receipt_id", id).
		Str("tx_hash", rec.TransactionHash).
		Msg("donation receipt journaled for replay")
	return id, nil
}

// ListPending returns up to limit unreplayed receipts, oldest first.
func (j *Journal) ListPending(ctx context.Context, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.sql.Query(ctx, sqlinline.QListPendingReceipts, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list pending receipts: %w", err)
	}
	defer rows.Close()

	var items []Receipt
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(
			&r.ID,
			&r.Record.TransactionHash,
			&r.Record.ChainID,
			&r.Record.Token,
			&r.Record.Amount,
			&r.Record.PostID,
			&r.Record.DonorDID,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("journal: scan receipt: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate receipts: %w", err)
	}
	return items, nil
}

// MarkRecorded closes a journal row after a successful replay.
func (j *Journal) MarkRecorded(ctx context.Context, id, streamID string) error {
	tag, err := j.sql.Exec(ctx, sqlinline.QMarkReceiptRecorded, id, streamID)
	if err != nil {
		return fmt.Errorf("journal: mark receipt recorded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("journal: receipt %s is not pending", id)
	}
	return nil
}

// Delete drops a journal row without recording it. Used when an operator
// verifies the entry already exists in the content store.
func (j *Journal) Delete(ctx context.Context, id string) error {
	if _, err := j.sql.Exec(ctx, sqlinline.QDeleteReceipt, id); err != nil {
		return fmt.Errorf("journal: delete receipt: %w", err)
	}
	return nil
}
