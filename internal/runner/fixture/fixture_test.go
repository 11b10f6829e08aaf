// Copyright 2024 G-Core Innovations SARL

package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
dictionary:
  origin: https://api.example.com
secrets:
  plain: hunter2
  rotated:
    - value: old
      effective_from: 2024-01-01T00:00:00Z
    - value: new
      effective_from: 2024-03-01T00:00:00Z
stores:
  default:
    values:
      greeting: hello
    zsets:
      board:
        alice: 10
        bob: 20
    blooms:
      seen: [a, b]
  locked:
    denied: true
env:
  UPSTREAM: https://origin.test
allowed_hosts:
  - origin.test
`

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", doc.Dictionary["origin"])
	assert.Equal(t, map[string]string{"UPSTREAM": "https://origin.test"}, doc.Env)
	assert.Equal(t, []string{"origin.test"}, doc.AllowedHosts)

	require.Len(t, doc.Secrets["plain"].Versions, 1)
	assert.Equal(t, "hunter2", doc.Secrets["plain"].Versions[0].Value)
	assert.True(t, doc.Secrets["plain"].Versions[0].EffectiveFrom.IsZero())

	rotated := doc.Secrets["rotated"].Versions
	require.Len(t, rotated, 2)
	assert.Equal(t, "old", rotated[0].Value)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), rotated[1].EffectiveFrom)

	require.Contains(t, doc.Stores, "locked")
	assert.True(t, doc.Stores["locked"].Denied)
}

func TestParseRejectsBadSecret(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("secrets:\n  broken:\n    value: not-a-list\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version list")
}

func TestHost(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	host := doc.Host()

	assert.Equal(t, "https://api.example.com", host.Dictionary["origin"])
	require.Contains(t, host.Stores, "default")
	assert.Equal(t, "hello", host.Stores["default"].Values["greeting"])
	assert.Equal(t, 20.0, host.Stores["default"].ZSets["board"]["bob"])
	assert.True(t, host.Stores["default"].Blooms["seen"]["a"])
	assert.False(t, host.Stores["default"].Blooms["seen"]["c"])
	assert.True(t, host.Stores["locked"].Denied)

	// The host owns its data.
	host.Dictionary["origin"] = "changed"
	assert.Equal(t, "https://api.example.com", doc.Dictionary["origin"])
}

func TestHostEmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := Parse(nil)
	require.NoError(t, err)

	host := doc.Host()
	assert.Empty(t, host.Dictionary)
	assert.Empty(t, host.Stores)
}
