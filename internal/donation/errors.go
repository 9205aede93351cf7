package donation

import (
	"errors"
	"fmt"
)

// FailureKind classifies how a donation attempt failed. The kinds mirror the
// recovery options the UI offers: validation failures are fixed by editing
// the form, wallet failures require a fresh submission, and a persistence
// failure only needs the record step replayed because the funds already
// moved.
type FailureKind string

const (
	KindValidation          FailureKind = "validation"
	KindChainSwitchRejected FailureKind = "chain_switch_rejected"
	KindUnsupportedToken    FailureKind = "unsupported_token"
	KindApprovalFailed      FailureKind = "approval_failed"
	KindTransferFailed      FailureKind = "transfer_failed"
	KindPersistenceFailed   FailureKind = "persistence_failed"
)

// FlowError carries a failure kind together with the underlying provider
// message, which is preserved verbatim for display.
type FlowError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func flowErr(kind FailureKind, err error) *FlowError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &FlowError{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the failure kind from an error, defaulting to
// KindTransferFailed for untyped errors escaping the wallet boundary.
func KindOf(err error) FailureKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransferFailed
}
