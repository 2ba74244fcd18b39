package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/middleware"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/opaqueid"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// requireUser responds 401 itself when the request is unauthenticated.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
	}
	return userID, ok
}

// decodeID reads the {id} path variable with codec. A malformed id is
// reported the same way as a missing row.
func decodeID[K any](r *http.Request, codec opaqueid.Codec[K]) (K, error) {
	raw := mux.Vars(r)["id"]
	key, ok := codec.Decode(raw)
	if !ok {
		return key, notFound(raw)
	}
	return key, nil
}

func notFound(id string) error {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    "Resource not found",
		Err:        fmt.Errorf("id %q: %w", id, utils.ErrNotFound),
	}
}

// parsePageArgs reads first/last/after/before from the query string.
func parsePageArgs(r *http.Request) (pagination.Args, error) {
	q := r.URL.Query()
	var args pagination.Args

	for _, name := range []string{"first", "last"} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return args, utils.NewValidationError(name, "must be an integer")
		}
		if name == "first" {
			args.First = &n
		} else {
			args.Last = &n
		}
	}
	if v := q.Get("after"); v != "" {
		args.After = &v
	}
	if v := q.Get("before"); v != "" {
		args.Before = &v
	}
	return args, nil
}

// splitList parses a comma separated query value, dropping empties.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
