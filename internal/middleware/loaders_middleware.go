package middleware

import (
	"net/http"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
)

// LoadersMiddleware gives every request its own loader scope and closes
// it once the handler returns.
func LoadersMiddleware(repos loaders.Repositories, opts dataloader.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := loaders.New(r.Context(), repos, opts)
			defer l.Close()
			next.ServeHTTP(w, r.WithContext(loaders.NewContext(r.Context(), l)))
		})
	}
}
