package genai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// APIError carries the HTTP status and raw body of a failed service call.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generative service error (status %d): %s", e.StatusCode, truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Category buckets a failure for user-facing presentation.
type Category string

const (
	CategoryQuota      Category = "quota"
	CategoryAuth       Category = "auth"
	CategoryNetwork    Category = "network"
	CategoryPermission Category = "permission"
	CategoryGeneric    Category = "generic"
)

var userMessages = map[Category]string{
	CategoryQuota:      "The wellness service is temporarily over capacity. Please try again in a little while.",
	CategoryAuth:       "The connection to the wellness service isn't authorized. Please check the configured API key.",
	CategoryNetwork:    "Couldn't reach the wellness service. Please check your connection and try again.",
	CategoryPermission: "Microphone access is blocked. Please allow microphone permission to use voice features.",
	CategoryGeneric:    "Something went wrong on our side. Please try again.",
}

// Classify buckets err into a presentation category. It checks quota and
// billing markers first, then auth, device permission, and network failures,
// falling back to generic.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return CategoryQuota
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return CategoryAuth
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "quota", "rate limit", "billing", "resource_exhausted", "insufficient_quota"):
		return CategoryQuota
	case containsAny(msg, "api key", "unauthorized", "unauthenticated", "invalid_api_key", "permission_denied"):
		return CategoryAuth
	case containsAny(msg, "microphone", "notallowederror", "device in use", "getusermedia"):
		return CategoryPermission
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}
	if containsAny(msg, "connection refused", "no such host", "network", "timeout", "tls") {
		return CategoryNetwork
	}
	return CategoryGeneric
}

// UserMessage maps err to a localized, user-facing string. Raw technical
// text never reaches the UI.
func UserMessage(err error) string {
	return userMessages[Classify(err)]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
