package handlers

import (
	"net/http"

	"youbuidl/internal/category"
)

func (a *App) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": category.All()})
}
