// Package device parses the User-Agent once per request so access logs can
// report the client browser and platform.
package device

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// Info is the parsed form of a User-Agent header.
type Info struct {
	Browser string
	Version string
	OS      string
	Mobile  bool
	Bot     bool
}

type contextKeyInfo struct{}

// Parse extracts browser and platform details from a raw User-Agent.
func Parse(raw string) Info {
	if raw == "" {
		return Info{}
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	return Info{
		Browser: name,
		Version: version,
		OS:      ua.OS(),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

// Middleware stores the parsed User-Agent in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithInfo(r.Context(), Parse(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the parsed User-Agent, or the zero Info.
func FromContext(ctx context.Context) Info {
	if info, ok := ctx.Value(contextKeyInfo{}).(Info); ok {
		return info
	}
	return Info{}
}

// WithInfo injects parsed device info into a context.
func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, contextKeyInfo{}, info)
}
