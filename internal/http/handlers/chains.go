package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"youbuidl/internal/chain"
)

type chainItem struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	NativeSymbol string `json:"native_symbol"`
	Icon         string `json:"icon"`
}

// ChainsList returns the supported chains in selection order. The picker
// shows the first page by default; ?all=true expands to every chain.
func (a *App) ChainsList(w http.ResponseWriter, r *http.Request) {
	chains := a.Registry.Chains()
	showAll, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	if !showAll && len(chains) > chain.DefaultVisibleChains {
		chains = chains[:chain.DefaultVisibleChains]
	}

	items := make([]chainItem, 0, len(chains))
	for _, c := range chains {
		items = append(items, chainItem{
			ID:           c.ID,
			Name:         c.Name,
			NativeSymbol: c.NativeSymbol,
			Icon:         a.Registry.IconFor(c.ID),
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(a.Registry.Chains()),
	})
}

type tokenItem struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address,omitempty"`
	Decimals int32  `json:"decimals"`
	Native   bool   `json:"native"`
}

// ChainTokens returns the donatable tokens for one chain. The native token
// leads, followed by the chain's stablecoins.
func (a *App) ChainTokens(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.ParseUint(chi.URLParam(r, "chainID"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid chain id")
		return
	}
	c, ok := a.Registry.ChainByID(chainID)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown chain")
		return
	}

	items := []tokenItem{{Symbol: c.NativeSymbol, Decimals: 18, Native: true}}
	for _, t := range a.Registry.TokensFor(chainID) {
		items = append(items, tokenItem{
			Symbol:   t.Symbol,
			Address:  t.Address.Hex(),
			Decimals: t.Decimals,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
