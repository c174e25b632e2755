package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of an access token payload the client relies on.
// The signature is never checked: these values only steer the UI, the
// server remains the authority.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time // zero when the token has no exp
}

// Expired reports whether exp has been reached at now. Tokens without exp
// never expire on the client.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Validate returns an error wrapping common.ErrTokenExpired once the token
// has expired at now.
func (c Claims) Validate(now time.Time) error {
	if c.Expired(now) {
		return fmt.Errorf("%w: exp %s", common.ErrTokenExpired, c.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// ParseClaims decodes the payload segment of token. Only a payload that
// cannot be decoded into a JSON object is an error, wrapping
// common.ErrInvalidToken. Claims of an unexpected type read as empty.
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return Claims{}, fmt.Errorf("%w: expected header.payload.signature", common.ErrInvalidToken)
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: decode payload: %v", common.ErrInvalidToken, err)
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(raw, &mc); err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object: %v", common.ErrInvalidToken, err)
	}
	if mc == nil {
		return Claims{}, fmt.Errorf("%w: empty payload", common.ErrInvalidToken)
	}

	return Claims{
		Subject:   stringAt(mc, "sub"),
		Role:      roleOf(mc),
		ExpiresAt: expiryOf(mc),
	}, nil
}

// expiryOf reads exp only when it is a JSON number. Any other value is
// treated as absent, so the token does not expire on the client.
func expiryOf(mc jwt.MapClaims) time.Time {
	if _, ok := mc["exp"].(float64); !ok {
		return time.Time{}
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// roleOf returns the first non-empty role claim, in the order the API has
// used over time: role, user_role, user.role, data.role.
func roleOf(mc jwt.MapClaims) string {
	if r := stringAt(mc, "role"); r != "" {
		return r
	}
	if r := stringAt(mc, "user_role"); r != "" {
		return r
	}
	for _, parent := range []string{"user", "data"} {
		if nested, ok := mc[parent].(map[string]any); ok {
			if r := stringAt(nested, "role"); r != "" {
				return r
			}
		}
	}
	return ""
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
