package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*LocalFileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalFileStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) }
	return s, filepath.Join(dir, "uploads")
}

func TestLocalFileStorage_Guarda(t *testing.T) {
	s, base := newTestStorage(t)

	path, err := s.Save(strings.NewReader("%PDF-1.4"), "Arte Final.PDF", "service-orders")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "service-orders/2026/10/18/2026-10-18-"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	b, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))
}

func TestLocalFileStorage_NombresUnicos(t *testing.T) {
	s, _ := newTestStorage(t)
	a, err := s.Save(strings.NewReader("a"), "x.ai", "service-orders")
	require.NoError(t, err)
	b, err := s.Save(strings.NewReader("b"), "x.ai", "service-orders")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalFileStorage_Elimina(t *testing.T) {
	s, base := newTestStorage(t)
	path, err := s.Save(strings.NewReader("x"), "sheet.xlsx", "service-orders")
	require.NoError(t, err)

	require.NoError(t, s.Delete("/uploads/"+path))
	_, err = os.Stat(filepath.Join(base, filepath.FromSlash(path)))
	assert.True(t, os.IsNotExist(err))

	// borrar de nuevo no falla
	assert.NoError(t, s.Delete(path))
}

func TestLocalFileStorage_RechazaRutaFueraDeRaiz(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.Error(t, s.Delete("../../etc/passwd"))
	assert.Error(t, s.Delete(""))
}
