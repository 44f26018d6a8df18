package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrNotFound matches any *Error carrying a 404.
var ErrNotFound = errors.New("remote: not found")

// Error is a non-2xx answer from an upstream service.
type Error struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusCode extracts the upstream status from err, 0 when err is not an *Error.
func StatusCode(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// message keys seen in the upstream services, most specific first
var messageKeys = []string{"detail", "message", "error", "title", "errors"}

const maxPlainMessage = 300

// errorMessage picks the human readable part of an error body, falling back
// to the status line.
func errorMessage(body []byte, status string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return status
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, want := range messageKeys {
			for k, v := range obj {
				if !strings.EqualFold(k, want) {
					continue
				}
				if s := messageValue(v); s != "" {
					return s
				}
			}
		}
		return status
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return status
	}

	if strings.HasPrefix(text, "<") {
		// HTML error page
		return status
	}
	if len(text) > maxPlainMessage {
		cut := maxPlainMessage
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func messageValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := messageValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		// ASP.NET validation problem: {"errors": {"Field": ["msg"]}}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(t))
		for _, k := range keys {
			if s := messageValue(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
