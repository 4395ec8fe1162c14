package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), ".todo", "session.json"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got, "nothing saved yet")

	require.NoError(t, s.Save(&Session{Email: "a@example.com", Token: "tok"}))

	got, err = s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "tok", got.Token)

	require.NoError(t, s.Clear())
	got, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestFileStore_EmptyTokenIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email":"a@example.com","token":""}`), 0o600))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}
