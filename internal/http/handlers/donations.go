package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"youbuidl/internal/category"
	"youbuidl/internal/donation"
)

type dialogOpenRequest struct {
	PostID    string `json:"post_id"`
	Recipient string `json:"recipient"`
	Category  string `json:"category,omitempty"`
}

// DialogOpen starts a donation dialog for a post and returns its initial
// selection state.
func (a *App) DialogOpen(w http.ResponseWriter, r *http.Request) {
	donorDID := a.donorDID(r)
	if donorDID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing donor identity")
		return
	}

	var req dialogOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.PostID == "" || req.Recipient == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "post_id and recipient are required")
		return
	}
	if req.Category != "" && !category.DonationEnabled(req.Category) {
		a.error(w, http.StatusForbidden, "donations_disabled", "this category does not accept donations")
		return
	}

	d := a.Dialogs.Open(req.PostID, donorDID, req.Recipient)
	a.json(w, http.StatusCreated, d.Snapshot())
}

// DialogUpdate replaces the chain/token/amount selection of an open dialog.
func (a *App) DialogUpdate(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Dialogs.Get(chi.URLParam(r, "dialogID"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown dialog")
		return
	}

	var intent donation.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := d.Update(intent); err != nil {
		a.dialogError(w, err)
		return
	}
	a.json(w, http.StatusOK, d.Snapshot())
}

// DialogSubmit runs the transfer and the record step. The snapshot tells the
// client where the flow ended up; a failed flow is still a 200 because the
// dialog handled it. When the record step fails after a confirmed transfer,
// the receipt is journaled so an operator can replay it.
func (a *App) DialogSubmit(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Dialogs.Get(chi.URLParam(r, "dialogID"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown dialog")
		return
	}

	snap, err := d.Submit(r.Context())
	if err != nil {
		a.dialogError(w, err)
		return
	}

	resp := map[string]any{"dialog": snap}
	if snap.State == donation.StateSucceededRecordPending && a.Journal != nil {
		if receiptID, jerr := a.Journal.SavePending(r.Context(), d.Record()); jerr != nil {
			a.Logger.Error().Err(jerr).Str("dialog_id", snap.ID).Msg("receipt journal write failed")
		} else {
			resp["receipt_id"] = receiptID
		}
	}
	a.json(w, http.StatusOK, resp)
}

// DialogRetryRecord replays only the record step of a donation whose
// transfer already confirmed.
func (a *App) DialogRetryRecord(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Dialogs.Get(chi.URLParam(r, "dialogID"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown dialog")
		return
	}

	snap, err := d.RetryRecord(r.Context())
	if err != nil {
		a.dialogError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"dialog": snap})
}

// DialogCancel closes a dialog and drops it from the live set. A dialog in
// the middle of a submission cannot be closed.
func (a *App) DialogCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "dialogID")
	d, ok := a.Dialogs.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown dialog")
		return
	}

	if err := d.Cancel(); err != nil {
		a.dialogError(w, err)
		return
	}
	a.Dialogs.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) dialogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, donation.ErrDialogBusy):
		a.error(w, http.StatusConflict, "dialog_busy", "a submission is in progress")
	case errors.Is(err, donation.ErrDialogState):
		a.error(w, http.StatusConflict, "dialog_state", "operation not allowed in the current state")
	default:
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
