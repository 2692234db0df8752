package handler

import (
	"path"
	"strings"

	"github.com/passiton/backend/internal/model"
)

// Level is the protection a page path requires.
type Level int

const (
	LevelPublic Level = iota
	LevelAuthenticated
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelAuthenticated:
		return "authenticated"
	case LevelAdmin:
		return "admin"
	default:
		return "public"
	}
}

var (
	adminAreas         = []string{"/admin"}
	authenticatedAreas = []string{"/dashboard", "/list-opportunity"}
)

// Classify maps a request path to its protection level. API routes are
// always public here; each endpoint checks the caller itself.
//
// The router matches the path as sent, dot segments included, so both the
// raw and the cleaned form are classified and the stricter level wins.
func Classify(p string) Level {
	return max(classify(rawPath(p)), classify(normalizePath(p)))
}

func classify(p string) Level {
	switch {
	case underAny(p, "/api"):
		return LevelPublic
	case underAny(p, adminAreas...):
		return LevelAdmin
	case underAny(p, authenticatedAreas...):
		return LevelAuthenticated
	default:
		return LevelPublic
	}
}

func rawPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.ToLower(p)
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.ToLower(path.Clean(p))
}

// underAny reports whether p is one of the prefixes or lies below one.
// Matching is by whole path segment so /administrator is not under /admin.
func underAny(p string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Decision is the outcome of checking a request against its level.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectLogin
	DecisionRedirectHome
	DecisionRejectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	case DecisionRejectUnauthorized:
		return "reject_unauthorized"
	default:
		return "allow"
	}
}

// DecidePage is the page-route decision. A signed-in user who lacks the
// admin role goes home rather than back to the login form.
func DecidePage(level Level, id model.Identity, authenticated bool) Decision {
	switch {
	case level == LevelPublic:
		return DecisionAllow
	case !authenticated:
		return DecisionRedirectLogin
	case level == LevelAdmin && !id.IsAdmin():
		return DecisionRedirectHome
	default:
		return DecisionAllow
	}
}

// DecideAPI is the endpoint decision. API callers are never redirected.
func DecideAPI(level Level, id model.Identity, authenticated bool) Decision {
	switch {
	case level == LevelPublic:
		return DecisionAllow
	case !authenticated:
		return DecisionRejectUnauthorized
	case level == LevelAdmin && !id.IsAdmin():
		return DecisionRejectUnauthorized
	default:
		return DecisionAllow
	}
}
