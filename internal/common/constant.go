// Package common contains shared constants and sentinel errors used across
// HexSocial client components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer access
// token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Storage keys for the token pair. Each key lives in exactly one tier.
const (
	AccessTokenKey  = "token"
	RefreshTokenKey = "refresh_token"
)

// Redirect targets produced by the session gate.
const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
	HomePath      = "/"
)

// Roles known to the client. Any other string coming from a token is passed
// through untouched.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
