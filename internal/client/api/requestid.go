package api

import (
	"net/http"

	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/google/uuid"
)

// requestIDTransport gives every physical request its own X-Request-ID
// unless the caller set one.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.RequestIDHeaderName) != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return t.next.RoundTrip(r)
}
