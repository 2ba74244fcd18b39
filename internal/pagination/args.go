package pagination

import (
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// Args are the client-facing connection arguments.
type Args struct {
	First  *int    `json:"first,omitempty"`
	After  *string `json:"after,omitempty"`
	Last   *int    `json:"last,omitempty"`
	Before *string `json:"before,omitempty"`
}

// Request is the validated form of Args. It is comparable so it can
// take part in loader params.
type Request struct {
	Backward bool
	Limit    int
	After    string
	Before   string
}

// Forward returns a request for the first n rows.
func Forward(n int) Request { return Request{Limit: n} }

// Request checks that exactly one of First and Last is set and within
// [0, MaxPageSize]. Cursors are checked when they are decoded.
func (a Args) Request() (Request, error) {
	var req Request
	switch {
	case a.First != nil && a.Last != nil:
		return req, utils.NewValidationError("first", "first and last are mutually exclusive")
	case a.First != nil:
		req.Limit = *a.First
	case a.Last != nil:
		req.Limit = *a.Last
		req.Backward = true
	default:
		return req, utils.NewValidationError("first", "one of first or last is required")
	}

	if req.Limit < 0 || req.Limit > constants.MaxPageSize {
		field := "first"
		if req.Backward {
			field = "last"
		}
		return req, utils.NewValidationError(field, "must be between 0 and 100")
	}

	req.After = utils.Val(a.After)
	req.Before = utils.Val(a.Before)
	return req, nil
}
