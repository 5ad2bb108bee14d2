// Package access decides where a request may go based on the department of
// its session.
package access

import (
	"path"
	"strings"

	"github.com/mvc-is/portal/internal/auth"
)

const (
	// LoginPath is the public sign-in page.
	LoginPath = "/"
	// DefaultNamespace serves every department without a dashboard of its own.
	DefaultNamespace = "/dashboard"
)

var departmentNamespaces = map[string]string{
	"IT Dept.":   "/mis_dashboard",
	"HR Dept.":   "/hr_dashboard",
	"Finance":    "/finance_dashboard",
	"Marketing":  "/marketing_dashboard",
	"Operations": "/operations_dashboard",
	"Logistics":  "/logistics_dashboard",
}

// protected is the set of first path segments that require a session.
var protected = func() map[string]bool {
	m := map[string]bool{strings.TrimPrefix(DefaultNamespace, "/"): true}
	for _, ns := range departmentNamespaces {
		m[strings.TrimPrefix(ns, "/")] = true
	}
	return m
}()

// Outcome is the kind of decision taken for a request.
type Outcome int

const (
	Pass Outcome = iota
	RedirectLogin
	RouteMismatch
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case RedirectLogin:
		return "redirect_login"
	case RouteMismatch:
		return "route_mismatch"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is the result of Decide. Location is empty for Pass.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Redirect reports whether the request must be redirected.
func (d Decision) Redirect() bool { return d.Outcome != Pass }

// NamespaceFor maps a department to its dashboard namespace.
func NamespaceFor(department string) string {
	if ns, ok := departmentNamespaces[department]; ok {
		return ns
	}
	return DefaultNamespace
}

// firstSegment returns the first segment of the cleaned path ("" for "/").
func firstSegment(p string) string {
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// isProtected reports whether the first path segment seg is a dashboard namespace.
func isProtected(seg string) bool {
	return protected[seg]
}

// Decide applies the routing rules to a request path. A nil identity is an
// anonymous request.
func Decide(p string, id *auth.Identity) Decision {
	seg := firstSegment(p)

	// 1. --- Anonymous ---
	if id == nil {
		if isProtected(seg) {
			return Decision{Outcome: RedirectLogin, Location: LoginPath}
		}
		return Decision{Outcome: Pass}
	}

	// 2. --- Signed in: keep the user inside their own dashboard ---
	target := NamespaceFor(id.Department)
	if isProtected(seg) && "/"+seg != target {
		return Decision{Outcome: RouteMismatch, Location: target}
	}
	if seg == "" {
		return Decision{Outcome: RedirectHome, Location: target}
	}
	return Decision{Outcome: Pass}
}
