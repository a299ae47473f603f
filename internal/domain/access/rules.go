package access

// Package access implements the ordered path-pattern access rules and the
// built-in request filters. Rule order is part of the contract: rules are
// evaluated in declaration order and the first matching pattern wins, no
// matter how specific a later pattern is.

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/company/orderhandler-ui/internal/domain/auth"
)

// Outcome is the verdict of a filter for a single request.
type Outcome int

const (
	// OutcomeAllow lets the request proceed.
	OutcomeAllow Outcome = iota
	// OutcomeRedirect sends the request to the login target.
	OutcomeRedirect
	// OutcomeReject refuses the request outright.
	OutcomeReject
)

// Decision carries a filter's verdict. RedirectURL is set only for
// OutcomeRedirect and preserves the originally requested path so the login
// flow can return the user there afterwards.
type Decision struct {
	Outcome     Outcome
	RedirectURL string
}

// Filter decides whether a request in a given authentication state may
// proceed. Implementations are the built-in anon/authc/user variants.
type Filter interface {
	Name() string
	Apply(state auth.RequestState) Decision
}

// Anonymous allows every request.
type Anonymous struct{}

// Name implements Filter.
func (Anonymous) Name() string { return "anon" }

// Apply implements Filter.
func (Anonymous) Apply(auth.RequestState) Decision {
	return Decision{Outcome: OutcomeAllow}
}

// Authenticated requires a live, non-anonymous session. Failing requests are
// redirected to the login target with the original path preserved.
type Authenticated struct {
	LoginURL string
}

// Name implements Filter.
func (Authenticated) Name() string { return "authc" }

// Apply implements Filter.
func (f Authenticated) Apply(state auth.RequestState) Decision {
	if state.Authenticated() {
		return Decision{Outcome: OutcomeAllow}
	}
	return redirectToLogin(f.LoginURL, state.Path)
}

// Remembered allows authenticated sessions as well as requests carrying a
// valid remember-me token.
type Remembered struct {
	LoginURL string
}

// Name implements Filter.
func (Remembered) Name() string { return "user" }

// Apply implements Filter.
func (f Remembered) Apply(state auth.RequestState) Decision {
	if state.Authenticated() || state.Remembered {
		return Decision{Outcome: OutcomeAllow}
	}
	return redirectToLogin(f.LoginURL, state.Path)
}

func redirectToLogin(loginURL, originalPath string) Decision {
	target := loginURL
	if originalPath != "" && originalPath != loginURL {
		target += "?redirect_uri=" + url.QueryEscape(originalPath)
	}
	return Decision{Outcome: OutcomeRedirect, RedirectURL: target}
}

// ByName returns the built-in filter registered under name.
func ByName(name, loginURL string) (Filter, error) {
	switch name {
	case "anon":
		return Anonymous{}, nil
	case "authc":
		return Authenticated{LoginURL: loginURL}, nil
	case "user":
		return Remembered{LoginURL: loginURL}, nil
	default:
		return nil, fmt.Errorf("unknown filter: %q", name)
	}
}

// Rule binds a path pattern to the filter protecting it.
type Rule struct {
	Pattern string
	Filter  Filter
}

// Resolver resolves request paths to filters by testing rules in declaration
// order. The default filter is an explicit construction argument: a chain
// with a silent fallback is how paths end up unprotected.
type Resolver struct {
	rules      []Rule
	defaultFlt Filter
}

// NewResolver constructs a Resolver. The default filter is required.
func NewResolver(rules []Rule, defaultFilter Filter) (*Resolver, error) {
	if defaultFilter == nil {
		return nil, errors.New("default filter is required")
	}
	for _, r := range rules {
		if r.Filter == nil {
			return nil, fmt.Errorf("rule %q has no filter", r.Pattern)
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("rule pattern %q must start with /", r.Pattern)
		}
	}
	return &Resolver{rules: rules, defaultFlt: defaultFilter}, nil
}

// Resolve returns the filter of the first rule whose pattern matches path,
// or the default filter when no rule matches.
func (r *Resolver) Resolve(path string) Filter {
	for _, rule := range r.rules {
		if PathMatches(rule.Pattern, path) {
			return rule.Filter
		}
	}
	return r.defaultFlt
}

// PathMatches tests path against an ant-style pattern: "**" matches any
// number of path segments including zero, "*" matches exactly one segment,
// anything else matches literally.
func PathMatches(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}

	if pattern[0] == "**" {
		// Zero segments consumed, or recurse with one segment consumed.
		if matchSegments(pattern[1:], segs) {
			return true
		}
		if len(segs) > 0 {
			return matchSegments(pattern, segs[1:])
		}
		return false
	}

	if len(segs) == 0 {
		return false
	}
	if pattern[0] == "*" || pattern[0] == segs[0] {
		return matchSegments(pattern[1:], segs[1:])
	}
	return false
}
