package pathutil

import (
	"regexp"
	"strings"
)

// pathPatterns maps concrete paths to metric label templates.
// Pre-compiled at initialization.
var pathPatterns = []struct {
	pattern  *regexp.Regexp
	template string
}{
	{regexp.MustCompile(`^/polls/[^/]+$`), "/polls/:id"},
	{regexp.MustCompile(`^/polls/[^/]+/results$`), "/polls/:id/results"},
	{regexp.MustCompile(`^/polls/[^/]+/vote$`), "/polls/:id/vote"},
	{regexp.MustCompile(`^/admin/questions/[^/]+$`), "/admin/questions/:id"},
}

// NormalizePath converts paths with IDs to template form so that metric
// labels stay low-cardinality. Query strings and a trailing slash are dropped;
// unmatched paths are returned as they are.
//
//	NormalizePath("/polls/123/")           // "/polls/:id"
//	NormalizePath("/polls/123/results/")   // "/polls/:id/results"
//	NormalizePath("/polls/")               // "/polls"
//	NormalizePath("/health")               // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
