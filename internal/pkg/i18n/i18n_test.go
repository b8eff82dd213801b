package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTranslate(t *testing.T) {
	dir := t.TempDir()
	content := []byte("session.accepted: \"%s accepted your session for %s\"\nsession.ended: \"Your session with %s has ended\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), content, 0o644))

	catalog, err := LoadCatalog(dir, "en")
	require.NoError(t, err)

	assert.Equal(t, "Alice accepted your session for Monday", catalog.Translate("session.accepted", "Alice", "Monday"))
	assert.Equal(t, "Your session with Bob has ended", catalog.Translate("session.ended", "Bob"))
}

func TestCatalogMissingKeyIsIdentity(t *testing.T) {
	catalog := NewCatalog()

	assert.Equal(t, "session.rejected", catalog.Translate("session.rejected"))
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(t.TempDir(), "tr")
	assert.Error(t, err)
}
