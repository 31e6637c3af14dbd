// Package metadata extracts client information from requests and carries it
// through the context, so command envelopes can record where a change came
// from without handlers touching net/http internals.
package metadata

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"
)

type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}
type contextKeyBrowser struct{}

// ClientMetadata extracts the client IP and parses the User-Agent header,
// adding both to the context. Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.Header.Get("User-Agent"))
		name, version := ua.Browser()
		browser := strings.TrimSpace(name + " " + version)

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientIP{}, ClientIPFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyUserAgent{}, r.Header.Get("User-Agent"))
		ctx = context.WithValue(ctx, contextKeyBrowser{}, browser)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgent retrieves the raw User-Agent from the context.
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(contextKeyUserAgent{}).(string); ok {
		return ua
	}
	return ""
}

// GetBrowser retrieves the parsed browser name and version from the context.
func GetBrowser(ctx context.Context) string {
	if browser, ok := ctx.Value(contextKeyBrowser{}).(string); ok {
		return browser
	}
	return ""
}

// WithClientMetadata injects client details into a context. Useful for tests
// that don't run the full middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	ctx = context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
	return ctx
}

// CommandMetadata assembles the metadata map recorded on event envelopes for
// a command issued in this request's context.
func CommandMetadata(ctx context.Context) map[string]string {
	metadata := map[string]string{}
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		metadata["request_id"] = requestID
	}
	if ip := GetClientIP(ctx); ip != "" {
		metadata["client_ip"] = ip
	}
	if ua := GetUserAgent(ctx); ua != "" {
		metadata["user_agent"] = ua
	}
	if browser := GetBrowser(ctx); browser != "" {
		metadata["browser"] = browser
	}
	return metadata
}

// ClientIPFromRequest extracts the client IP, preferring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return "unknown"
}
