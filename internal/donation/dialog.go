package donation

import (
	"context"
	"errors"
	"sync"

	"youbuidl/internal/infra"
	"youbuidl/internal/wallet"
)

// State is the dialog lifecycle position.
type State string

const (
	StateClosed     State = "closed"
	StateSelection  State = "selection"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	// StateSucceededRecordPending means the transfer confirmed but the
	// receipt write failed: the donation itself succeeded and only the
	// record step may be retried.
	StateSucceededRecordPending State = "succeeded_record_pending"
	StateFailed                 State = "failed"
)

var (
	// ErrDialogBusy is returned when a submission is in flight and the
	// requested operation would interfere with it.
	ErrDialogBusy = errors.New("donation: submission in progress")

	// ErrDialogState is returned for operations that are not legal in the
	// dialog's current state.
	ErrDialogState = errors.New("donation: operation not allowed in current state")
)

// Dialog drives one donation attempt: selection, submission through the
// executor, then recording. Each instance owns its intent and transaction
// lifecycle; two dialogs share nothing mutable.
type Dialog struct {
	id       string
	postID   string
	donorDID string

	executor *Executor
	recorder *Recorder
	session  wallet.Session
	logger   infra.Logger

	mu      sync.Mutex
	state   State
	intent  Intent
	result  Result
	record  Record
	failure *FlowError
}

// Snapshot is an immutable view of a dialog, safe to hand to the
// presentation layer. Notification decisions (toast, inline error, warning
// banner) belong to the caller.
type Snapshot struct {
	ID             string      `json:"id"`
	PostID         string      `json:"post_id"`
	State          State       `json:"state"`
	Intent         Intent      `json:"intent"`
	TxHash         string      `json:"tx_hash,omitempty"`
	ApprovalHash   string      `json:"approval_hash,omitempty"`
	RecordStreamID string      `json:"record_stream_id,omitempty"`
	FailureKind    FailureKind `json:"failure_kind,omitempty"`
	FailureMessage string      `json:"failure_message,omitempty"`
}

func newDialog(id, postID, donorDID string, defaults Intent, executor *Executor, recorder *Recorder, session wallet.Session, logger infra.Logger) *Dialog {
	return &Dialog{
		id:       id,
		postID:   postID,
		donorDID: donorDID,
		executor: executor,
		recorder: recorder,
		session:  session,
		logger:   logger,
		state:    StateSelection,
		intent:   defaults,
	}
}

// Update replaces the chain/token/amount/recipient selection. Only legal
// while the dialog is still in selection.
func (d *Dialog) Update(intent Intent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case StateSelection:
		d.intent = intent
		d.failure = nil
		return nil
	case StateSubmitting:
		return ErrDialogBusy
	default:
		return ErrDialogState
	}
}

// Submit validates the intent locally, then runs the transfer and the record
// step. Validation failures keep the dialog in selection with an inline
// error and cause no network traffic. A record failure after a confirmed
// transfer ends in StateSucceededRecordPending, never StateFailed.
func (d *Dialog) Submit(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	if d.state != StateSelection {
		err := ErrDialogState
		if d.state == StateSubmitting {
			err = ErrDialogBusy
		}
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, err
	}
	if err := d.intent.Validate(d.session.Address()); err != nil {
		var fe *FlowError
		errors.As(err, &fe)
		d.failure = fe
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, nil
	}
	d.state = StateSubmitting
	d.failure = nil
	intent := d.intent
	d.mu.Unlock()

	// The wallet interaction may suspend for as long as the user deliberates;
	// no deadline is imposed here.
	result, err := d.executor.Execute(ctx, intent, d.session)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		var fe *FlowError
		if !errors.As(err, &fe) {
			fe = flowErr(KindTransferFailed, err)
		}
		d.failure = fe
		if fe.Kind == KindValidation {
			d.state = StateSelection
		} else {
			d.state = StateFailed
		}
		return d.snapshotLocked(), nil
	}
	d.result = result

	rec, err := d.recorder.Record(ctx, result, intent, d.postID, d.donorDID)
	d.record = rec
	if err != nil {
		// Funds moved; only the receipt is missing.
		var fe *FlowError
		if !errors.As(err, &fe) {
			fe = flowErr(KindPersistenceFailed, err)
		}
		d.failure = fe
		d.state = StateSucceededRecordPending
		return d.snapshotLocked(), nil
	}
	d.state = StateSucceeded
	return d.snapshotLocked(), nil
}

// RetryRecord replays the receipt write for a donation whose transfer
// already confirmed. The transfer is never resubmitted.
func (d *Dialog) RetryRecord(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	if d.state != StateSucceededRecordPending {
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, ErrDialogState
	}
	rec := d.record
	d.mu.Unlock()

	replayed, err := d.recorder.Replay(ctx, rec)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		var fe *FlowError
		if !errors.As(err, &fe) {
			fe = flowErr(KindPersistenceFailed, err)
		}
		d.failure = fe
		return d.snapshotLocked(), nil
	}
	d.record = replayed
	d.failure = nil
	d.state = StateSucceeded
	return d.snapshotLocked(), nil
}

// Cancel discards the dialog. Closing while a submission is in flight is
// refused so an impatient close-and-reopen cannot double-submit.
func (d *Dialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateSubmitting {
		return ErrDialogBusy
	}
	d.state = StateClosed
	d.intent = Intent{}
	return nil
}

// Snapshot returns the current view of the dialog.
func (d *Dialog) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dialog) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             d.id,
		PostID:         d.postID,
		State:          d.state,
		Intent:         d.intent,
		TxHash:         d.result.TxHash,
		ApprovalHash:   d.result.ApprovalHash,
		RecordStreamID: d.record.StreamID,
	}
	if d.failure != nil {
		snap.FailureKind = d.failure.Kind
		snap.FailureMessage = d.failure.Message
	}
	return snap
}

// Record returns the receipt built for this dialog's transfer. Meaningful
// once the dialog reached a succeeded state.
func (d *Dialog) Record() Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record
}
