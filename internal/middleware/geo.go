package middleware

import (
	"context"
	"net/http"

	"youbuidl/internal/infra/geoip"
)

// Geo resolves the client's country and stores the ISO code in the request
// context. Lookup failures are ignored; the code is observability data, not
// an access control input.
func Geo(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code, err := resolver.CountryCode(clientIP(r)); err == nil && code != "" {
				r = r.WithContext(context.WithValue(r.Context(), countryKey, code))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
