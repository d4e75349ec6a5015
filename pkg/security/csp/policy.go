// Package csp builds Content-Security-Policy headers and serves them as middleware.
package csp

import (
	"net/http"
	"strings"
)

// directiveOrder keeps the built header stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// Builder constructs a policy fluently. It is not safe for concurrent use.
//
//	policy := NewBuilder().DefaultSrc("'self'").FormAction("'self'").Build()
//	// "default-src 'self'; form-action 'self'"
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(directive string, sources []string) *Builder {
	b.directives[directive] = sources
	return b
}

func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.set("default-src", sources) }
func (b *Builder) ScriptSrc(sources ...string) *Builder  { return b.set("script-src", sources) }
func (b *Builder) StyleSrc(sources ...string) *Builder   { return b.set("style-src", sources) }
func (b *Builder) ImgSrc(sources ...string) *Builder     { return b.set("img-src", sources) }
func (b *Builder) ConnectSrc(sources ...string) *Builder { return b.set("connect-src", sources) }
func (b *Builder) FormAction(sources ...string) *Builder { return b.set("form-action", sources) }
func (b *Builder) BaseURI(sources ...string) *Builder    { return b.set("base-uri", sources) }
func (b *Builder) ObjectSrc(sources ...string) *Builder  { return b.set("object-src", sources) }

// FrameAncestors controls who may embed the page; "'none'" forbids framing.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.set("frame-ancestors", sources)
}

// ReportURI sets where browsers send violation reports.
func (b *Builder) ReportURI(uri string) *Builder { return b.set("report-uri", []string{uri}) }

// ReportOnly switches to the report-only header.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the policy. Directives without sources are omitted.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, directive+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the enforcing or report-only header name.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// PagesPolicy suits the server-rendered poll pages: same-origin resources,
// forms posting back to the site and no framing.
func PagesPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy suits JSON endpoints that never render HTML.
func StrictPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}

// Middleware sets the policy header on every response.
func Middleware(b *Builder) func(http.Handler) http.Handler {
	name, value := b.HeaderName(), b.Build()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if value != "" {
				w.Header().Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
