package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tokens", "token.json"))

	in := &Credential{
		AccessToken:  "abc",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		Scopes:       []string{"s1", "s2"},
		ClientID:     "cid",
		ClientSecret: "csec",
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in.AccessToken, out.AccessToken)
	assert.Equal(t, in.RefreshToken, out.RefreshToken)
	assert.True(t, in.Expiry.Equal(out.Expiry))
	assert.Equal(t, in.Scopes, out.Scopes)
	assert.Equal(t, in.ClientID, out.ClientID)
	assert.Equal(t, in.ClientSecret, out.ClientSecret)
}

func TestStoreLoadAbsent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrSourceAbsent)
}

func TestStoreLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrSourceMalformed)
}

func TestStoreSaveReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&Credential{AccessToken: "old"}))
	require.NoError(t, store.Save(&Credential{AccessToken: "new"}))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", out.AccessToken)

	// The temp file used for the atomic write must not linger.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, NewStore(path).Save(&Credential{AccessToken: "abc"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
