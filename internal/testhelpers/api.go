package testhelpers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
)

// BuildAuthRequest builds a request carrying jwtString as a bearer token.
// An empty jwtString sends no Authorization header.
func (h *TestHelper) BuildAuthRequest(method, reqURL, jwtString string, body []byte) *http.Request {
	req := httptest.NewRequest(method, reqURL, bytes.NewReader(body)).WithContext(h.Ctx)
	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Serve runs req through handler and returns the recorded response.
func (h *TestHelper) Serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
