// Package pathutil holds the named route table and path helpers shared by
// the handlers, the metrics middleware and the templates.
package pathutil

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Route names.
const (
	RoutePollsIndex     = "polls:index"
	RoutePollsDetail    = "polls:detail"
	RoutePollsResults   = "polls:results"
	RoutePollsVote      = "polls:vote"
	RouteAdminQuestions = "admin:questions"
	RouteAdminQuestion  = "admin:question"
	RouteAuthToken      = "auth:token"
)

// Route binds a name to a method and a ServeMux path pattern.
// Method is empty for routes that serve more than one method.
type Route struct {
	Name    string
	Method  string
	Pattern string
}

// MuxPattern returns the pattern in the "METHOD /path" form accepted by http.ServeMux.
func (r Route) MuxPattern() string {
	if r.Method == "" {
		return r.Pattern
	}
	return r.Method + " " + r.Pattern
}

var routes = map[string]Route{
	RoutePollsIndex:     {Name: RoutePollsIndex, Method: "GET", Pattern: "/polls/{$}"},
	RoutePollsDetail:    {Name: RoutePollsDetail, Method: "GET", Pattern: "/polls/{id}/{$}"},
	RoutePollsResults:   {Name: RoutePollsResults, Method: "GET", Pattern: "/polls/{id}/results/{$}"},
	RoutePollsVote:      {Name: RoutePollsVote, Method: "POST", Pattern: "/polls/{id}/vote/{$}"},
	RouteAdminQuestions: {Name: RouteAdminQuestions, Method: "", Pattern: "/admin/questions"},
	RouteAdminQuestion:  {Name: RouteAdminQuestion, Method: "DELETE", Pattern: "/admin/questions/{id}"},
	RouteAuthToken:      {Name: RouteAuthToken, Method: "POST", Pattern: "/auth/token"},
}

// ErrUnknownRoute is returned by Reverse for names missing from the route table.
var ErrUnknownRoute = errors.New("unknown route")

// Lookup returns the route registered under name.
func Lookup(name string) (Route, bool) {
	r, ok := routes[name]
	return r, ok
}

// MustLookup is Lookup for route names fixed at compile time.
func MustLookup(name string) Route {
	r, ok := routes[name]
	if !ok {
		panic(fmt.Sprintf("pathutil: %s: %q", ErrUnknownRoute, name))
	}
	return r
}

// Reverse builds the URL path of the named route, substituting args for the
// {wildcards} in order. The argument count must match the wildcard count.
//
//	Reverse("polls:index")           // "/polls/"
//	Reverse("polls:results", 3)      // "/polls/3/results/"
func Reverse(name string, args ...any) (string, error) {
	r, ok := routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	var b strings.Builder
	rest := strings.TrimSuffix(r.Pattern, "{$}")
	used := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("route %q: malformed pattern %q", name, r.Pattern)
		}
		if used >= len(args) {
			return "", fmt.Errorf("route %q: expected more than %d arguments", name, len(args))
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(fmt.Sprint(args[used])))
		used++
		rest = rest[open+end+1:]
	}
	if used != len(args) {
		return "", fmt.Errorf("route %q: expected %d arguments, got %d", name, used, len(args))
	}
	return b.String(), nil
}

// MustReverse is Reverse that panics on error. Templates use it through
// the "url" function, where a bad name is a programming error.
func MustReverse(name string, args ...any) string {
	path, err := Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return path
}

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 path value such as r.PathValue("id").
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
