// Package api is the HTTP client for the HexSocial REST API.
//
// # Overview
//
// Client exposes one method per consumed endpoint. Authenticated calls go
// through AuthTransport, which attaches the stored bearer token and
// performs a single refresh-and-retry when the API answers 401. Public
// calls (OTP, login, token refresh) bypass it, so a refresh can never
// trigger another refresh.
//
// Below both sits a circuit breaker (BreakerTransport) that fails fast
// with common.ErrUnavailable after repeated network errors or 5xx answers,
// and a transport stamping every physical request with an X-Request-ID.
//
// # Error Handling
//
// Non-2xx answers become *Error values wrapping the sentinels from
// internal/common (ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrInvalidInput, ErrConflict, ErrUnavailable); match them with errors.Is.
//
// # Response shapes
//
// The API is not consistent about envelopes. List decodes a bare array or
// an object carrying the items under data, results, results.data, posts,
// notifications or communities. Object decodes either a bare object or one
// wrapped in data.
package api
