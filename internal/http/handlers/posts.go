package handlers

import (
	"encoding/json"
	"net/http"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// PostsGenerate drafts a post body from a prompt. The draft is returned to
// the client for editing; nothing is published here.
func (a *App) PostsGenerate(w http.ResponseWriter, r *http.Request) {
	if a.Generator == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "post generation is not configured")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	draft, err := a.Generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.Logger.Error().Err(err).Msg("post generation failed")
		a.error(w, http.StatusBadGateway, "upstream", "failed to generate post")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"draft": draft})
}
