package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company/orderhandler-ui/internal/domain/auth"
)

func TestPathMatches(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"/css/**", "/css/app.css", true},
		{"/css/**", "/css/themes/dark.css", true},
		{"/css/**", "/css", true}, // ** matches zero segments
		{"/css/**", "/cssx/app.css", false},
		{"/user/*", "/user/profile", true},
		{"/user/*", "/user/profile/edit", false}, // * is exactly one segment
		{"/user/*", "/user", false},
		{"/user/*/edit", "/user/profile/edit", true},
		{"/user/**/edit", "/user/edit", true},
		{"/user/**/edit", "/user/a/b/edit", true},
		{"/login", "/login", true},
		{"/login", "/login/extra", false},
		{"/**", "/anything/at/all", true},
		{"/**", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.match, PathMatches(tt.pattern, tt.path))
		})
	}
}

func TestResolverFirstMatchWins(t *testing.T) {
	// Two overlapping rules: the first declared must determine the outcome
	// even though the second pattern is more specific.
	resolver, err := NewResolver([]Rule{
		{Pattern: "/user/**", Filter: Authenticated{LoginURL: "/login"}},
		{Pattern: "/user/public/**", Filter: Anonymous{}},
	}, Authenticated{LoginURL: "/login"})
	require.NoError(t, err)

	flt := resolver.Resolve("/user/public/readme")
	assert.Equal(t, "authc", flt.Name())
}

func TestResolverDeclarationOrderReversed(t *testing.T) {
	resolver, err := NewResolver([]Rule{
		{Pattern: "/user/public/**", Filter: Anonymous{}},
		{Pattern: "/user/**", Filter: Authenticated{LoginURL: "/login"}},
	}, Authenticated{LoginURL: "/login"})
	require.NoError(t, err)

	assert.Equal(t, "anon", resolver.Resolve("/user/public/readme").Name())
	assert.Equal(t, "authc", resolver.Resolve("/user/profile").Name())
}

func TestResolverDefaultFilter(t *testing.T) {
	resolver, err := NewResolver([]Rule{
		{Pattern: "/css/**", Filter: Anonymous{}},
	}, Authenticated{LoginURL: "/login"})
	require.NoError(t, err)

	assert.Equal(t, "authc", resolver.Resolve("/unmapped/path").Name())
}

func TestNewResolverRequiresDefault(t *testing.T) {
	_, err := NewResolver(nil, nil)
	require.Error(t, err)
}

func TestStaticAssetResolvesAnonymous(t *testing.T) {
	resolver, err := NewResolver([]Rule{
		{Pattern: "/css/**", Filter: Anonymous{}},
		{Pattern: "/js/**", Filter: Anonymous{}},
		{Pattern: "/user/**", Filter: Authenticated{LoginURL: "/login"}},
	}, Authenticated{LoginURL: "/login"})
	require.NoError(t, err)

	// No session at all: static assets still pass.
	decision := resolver.Resolve("/css/app.css").Apply(auth.RequestState{Path: "/css/app.css"})
	assert.Equal(t, OutcomeAllow, decision.Outcome)
}

func TestProtectedPathRedirectsPreservingTarget(t *testing.T) {
	flt := Authenticated{LoginURL: "/login"}

	decision := flt.Apply(auth.RequestState{Path: "/user/profile"})
	assert.Equal(t, OutcomeRedirect, decision.Outcome)
	assert.Equal(t, "/login?redirect_uri=%2Fuser%2Fprofile", decision.RedirectURL)
}

func TestAuthenticatedAllowsLiveSession(t *testing.T) {
	flt := Authenticated{LoginURL: "/login"}
	sess := &auth.Session{Attributes: map[string]string{auth.AttrUID: "mjamali"}}

	decision := flt.Apply(auth.RequestState{Path: "/user/profile", Session: sess})
	assert.Equal(t, OutcomeAllow, decision.Outcome)
}

func TestAuthenticatedRejectsAnonymousSession(t *testing.T) {
	flt := Authenticated{LoginURL: "/login"}
	sess := &auth.Session{Attributes: map[string]string{"cart": "abc"}}

	decision := flt.Apply(auth.RequestState{Path: "/user/profile", Session: sess})
	assert.Equal(t, OutcomeRedirect, decision.Outcome)
}

func TestRememberedFilter(t *testing.T) {
	flt := Remembered{LoginURL: "/login"}

	assert.Equal(t, OutcomeAllow, flt.Apply(auth.RequestState{Remembered: true}).Outcome)
	assert.Equal(t, OutcomeAllow, flt.Apply(auth.RequestState{
		Session: &auth.Session{Attributes: map[string]string{auth.AttrUID: "mjamali"}},
	}).Outcome)
	assert.Equal(t, OutcomeRedirect, flt.Apply(auth.RequestState{Path: "/orders"}).Outcome)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"anon", "authc", "user"} {
		flt, err := ByName(name, "/login")
		require.NoError(t, err)
		assert.Equal(t, name, flt.Name())
	}

	_, err := ByName("shiro", "/login")
	require.Error(t, err)
}
