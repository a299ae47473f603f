package config

import (
	"fmt"
	"strings"
)

// FilterName identifies a built-in access filter.
type FilterName string

const (
	// FilterAnon allows every request.
	FilterAnon FilterName = "anon"
	// FilterAuthc requires a live authenticated session.
	FilterAuthc FilterName = "authc"
	// FilterUser allows authenticated or remembered requests.
	FilterUser FilterName = "user"
)

// UnmarshalText implements encoding.TextUnmarshaler for FilterName.
func (f *FilterName) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "anon", "authc", "user":
		*f = FilterName(v)
		return nil
	default:
		return fmt.Errorf("invalid filter name: %q (valid options: anon, authc, user)", v)
	}
}

// AccessConfig declares the ordered path-pattern access rules.
//
// Rules are "<pattern>=<filter>" pairs evaluated in declaration order; the
// first matching pattern wins. DefaultFilter applies when no pattern matches
// and is deliberately required: falling through to an implicit policy is a
// classic way to leave paths unprotected.
type AccessConfig struct {
	// Rules is an ordered, semicolon-separated list of access rules, e.g.
	// "/css/**=anon;/js/**=anon;/user/**=authc".
	Rules []string `env:"ACCESS_RULES" envSeparator:";" envDefault:"/login=anon;/logout=anon;/auth/**=anon;/healthz=anon;/css/**=anon;/js/**=anon;/guest/**=anon;/user/**=authc"`

	// DefaultFilter is the filter applied to paths no rule matches.
	DefaultFilter FilterName `env:"ACCESS_DEFAULT_FILTER,required"`
}

// RulePair is one parsed (pattern, filter) access rule.
type RulePair struct {
	Pattern string
	Filter  FilterName
}

// ParseRules parses the declared rules, preserving declaration order.
func (a *AccessConfig) ParseRules() ([]RulePair, error) {
	pairs := make([]RulePair, 0, len(a.Rules))
	for _, raw := range a.Rules {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		pattern, filterStr, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("invalid access rule %q: expected <pattern>=<filter>", raw)
		}

		pattern = strings.TrimSpace(pattern)
		if !strings.HasPrefix(pattern, "/") {
			return nil, fmt.Errorf("invalid access rule %q: pattern must start with /", raw)
		}

		var filter FilterName
		if err := filter.UnmarshalText([]byte(filterStr)); err != nil {
			return nil, fmt.Errorf("invalid access rule %q: %w", raw, err)
		}

		pairs = append(pairs, RulePair{Pattern: pattern, Filter: filter})
	}

	return pairs, nil
}
