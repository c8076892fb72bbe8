package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityeats/internal/domain"
	"cityeats/internal/storage"
)

func TestDefaultsToLight(t *testing.T) {
	p := Load(storage.NewMemoryStore(), nil, nil)
	assert.Equal(t, domain.ThemeLight, p.Current())
	assert.False(t, p.Dark())
}

func TestToggleWritesOnChange(t *testing.T) {
	kv := storage.NewMemoryStore()
	p := Load(kv, nil, nil)

	assert.Equal(t, domain.ThemeDark, p.Toggle())
	v, _, _ := kv.Get(storage.KeyTheme)
	assert.Equal(t, "dark", v)

	assert.Equal(t, domain.ThemeLight, p.Toggle())
	v, _, _ = kv.Get(storage.KeyTheme)
	assert.Equal(t, "light", v)
}

func TestInitFromStorage(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(storage.KeyTheme, "dark"))

	assert.True(t, Load(kv, nil, nil).Dark())
}

func TestUnreadableStorageFallsBackToLight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("]["), 0o644))

	p := Load(storage.NewFileStore(path), nil, nil)
	assert.Equal(t, domain.ThemeLight, p.Current())
}
