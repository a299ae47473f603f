package statsd

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" auth/login ":  "auth_login",
		"foo..bar":      "foo.bar",
		"multi  space":  "multi__space",
		".sweeper.":     "sweeper",
		"":              "",
	}

	for input, want := range tests {
		assert.Equal(t, want, cleanName(input), "cleanName(%q)", input)
	}
}

func TestQualify(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "orderhandler"}
	assert.Equal(t, "orderhandler.auth.login", c.qualify("auth.login"))
	assert.Empty(t, c.qualify("   "), "empty names must not emit a bare prefix")

	unprefixed := &Client{}
	assert.Equal(t, "auth.login", unprefixed.qualify("auth.login"))
}

func TestTagSuffix(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " auth "}
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	got := tagSuffix(global, local)
	assert.Equal(t, "|#env:stage,result:success,service:auth", got)
}

func TestTagSuffixEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tagSuffix(nil, nil))
	assert.Empty(t, tagSuffix(map[string]string{"": "x"}, nil))
}

func TestTrimTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	original := map[string]string{"env": "prod", "": "ignored"}

	cloned := trimTags(original)
	require.NotNil(t, cloned)
	assert.NotContains(t, cloned, "")

	cloned["env"] = "stage"
	assert.Equal(t, "prod", original["env"], "trimTags must not alias the input")
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{enabled: true, conn: clientConn}
	assert.True(t, client.Enabled())

	require.NoError(t, client.Close())
	assert.False(t, client.Enabled())

	// Close again: idempotent.
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	require.NoError(t, nilClient.Close())
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}
