package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/hexsocial/internal/common"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// Error is a non-2xx API answer.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error // one of the common sentinels, or nil
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func sentinelFor(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return common.ErrInvalidInput
	case status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case status == http.StatusForbidden:
		return common.ErrForbidden
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status == http.StatusConflict:
		return common.ErrConflict
	case status >= 500:
		return common.ErrUnavailable
	default:
		return nil
	}
}

// parseError consumes and closes resp.Body.
func parseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	apiErr := &Error{Status: resp.StatusCode, Err: sentinelFor(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return apiErr
	}

	apiErr.Code, apiErr.Message = describeBody(body)
	return apiErr
}

// describeBody understands the error shapes the API produces:
// {"detail": ...}, {"message": ...}, {"error": "..."},
// {"error": {"code", "message"}} and field maps like {"email": ["taken"]}.
func describeBody(body []byte) (code, message string) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", strings.TrimSpace(string(body))
	}

	if raw, ok := obj["error"]; ok {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &nested) == nil && (nested.Code != "" || nested.Message != "") {
			return nested.Code, nested.Message
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return "", s
		}
	}

	code = stringField(obj, "code")
	for _, key := range []string{"detail", "message"} {
		if s := stringField(obj, key); s != "" {
			return code, s
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(obj[k], &msgs) == nil && len(msgs) > 0 {
			parts = append(parts, k+": "+strings.Join(msgs, ", "))
		}
	}
	if len(parts) > 0 {
		return code, strings.Join(parts, "; ")
	}
	return code, strings.TrimSpace(string(body))
}

func stringField(obj map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := obj[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
