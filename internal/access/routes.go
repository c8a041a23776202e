// Package access resolves portal paths against the role-gated route table.
package access

import (
	"path"
	"slices"
	"strings"

	"gurukul/internal/model"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision outcomes.
const (
	OutcomeAllow    = "allow"
	OutcomeRedirect = "redirect"
	OutcomeNotFound = "not_found"
)

// Route is one portal page. Public routes need no session; otherwise the
// viewer must be signed in and, when Roles is non-empty, hold exactly one of
// them. Admins get no implicit pass: a page admins may open lists the role.
type Route struct {
	Pattern string   `json:"pattern"`
	Public  bool     `json:"public"`
	Roles   []string `json:"roles,omitempty"`
}

// Decision is the result of resolving a path.
type Decision struct {
	Path     string `json:"path"`
	Outcome  string `json:"outcome"`
	Redirect string `json:"redirect,omitempty"`
	Route    *Route `json:"route,omitempty"`
}

// DefaultRoutes is the Neo-Gurukul portal.
var DefaultRoutes = []Route{
	{Pattern: "/", Public: true},
	{Pattern: "/login", Public: true},
	{Pattern: "/register", Public: true},
	{Pattern: "/unauthorized", Public: true},
	{Pattern: "/courses", Public: true},
	{Pattern: "/knowledge-base", Public: true},
	{Pattern: "/teacher-specializations", Public: true},
	{Pattern: "/teachers/{subject}", Public: true},
	{Pattern: "/veerata-vidya", Public: true},
	{Pattern: "/community-hub", Public: true},
	{Pattern: "/content-library"},
	{Pattern: "/student-dashboard", Roles: []string{model.RoleStudent}},
	{Pattern: "/teacher-dashboard", Roles: []string{model.RoleTeacher}},
	{Pattern: "/parent-dashboard", Roles: []string{model.RoleParent}},
	{Pattern: "/assessment-system", Roles: []string{model.RoleStudent, model.RoleTeacher}},
}

type Table struct {
	routes []Route
}

func NewTable(routes []Route) *Table {
	return &Table{routes: routes}
}

// Routes returns the table in declaration order.
func (t *Table) Routes() []Route {
	return t.routes
}

// Match finds the first route whose pattern matches p. A "{name}" segment
// matches any single non-empty segment.
func (t *Table) Match(p string) (*Route, bool) {
	segs := split(p)
	for i := range t.routes {
		if matchSegments(split(t.routes[i].Pattern), segs) {
			return &t.routes[i], true
		}
	}
	return nil, false
}

// Resolve decides what the portal shows for path p to a viewer with role.
// An empty role means the viewer is not signed in.
func (t *Table) Resolve(p, role string) Decision {
	clean := normalize(p)
	d := Decision{Path: clean}

	route, ok := t.Match(clean)
	if !ok {
		d.Outcome = OutcomeNotFound
		return d
	}
	d.Route = route

	switch {
	case route.Public:
		d.Outcome = OutcomeAllow
	case role == "":
		d.Outcome, d.Redirect = OutcomeRedirect, LoginPath
	case len(route.Roles) == 0 || slices.Contains(route.Roles, role):
		d.Outcome = OutcomeAllow
	default:
		d.Outcome, d.Redirect = OutcomeRedirect, UnauthorizedPath
	}
	return d
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, want := range pattern {
		if strings.HasPrefix(want, "{") && strings.HasSuffix(want, "}") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if want != segs[i] {
			return false
		}
	}
	return true
}
