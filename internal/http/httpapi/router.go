package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"youbuidl/internal/http/handlers"
	"youbuidl/internal/infra/geoip"
	"youbuidl/internal/middleware"
)

// Options carries everything the router needs beyond the handlers.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	RateLimit      int
	Countries      geoip.CountryResolver
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Geo(opts.Countries),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/chains", func(r chi.Router) {
		r.Get("/", app.ChainsList)
		r.Get("/{chainID}/tokens", app.ChainTokens)
	})

	r.Get("/v1/categories", app.CategoriesList)
	r.Get("/v1/feed", app.FeedList)
	r.Get("/v1/posts/{postID}/donations", app.PostDonations)

	r.Route("/v1/donations/dialogs", func(r chi.Router) {
		r.Post("/", app.DialogOpen)
		r.Put("/{dialogID}", app.DialogUpdate)
		r.Post("/{dialogID}/submit", app.DialogSubmit)
		r.Post("/{dialogID}/retry-record", app.DialogRetryRecord)
		r.Delete("/{dialogID}", app.DialogCancel)
	})

	r.Post("/v1/points/award", app.PointsAward)
	r.Post("/v1/posts/generate", app.PostsGenerate)

	return r
}
