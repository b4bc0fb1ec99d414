package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clicheria-api/internal/application/order"
)

var _ order.FileStorage = (*LocalFileStorage)(nil)

// LocalFileStorage guarda los adjuntos de las órdenes bajo basePath/prefix/AAAA/MM/DD.
// Las rutas devueltas son relativas a basePath y usan "/".
type LocalFileStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalFileStorage crea el directorio base si no existe.
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de adjuntos: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, now: time.Now}, nil
}

// Save copia file con un nombre único que conserva la extensión original.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)

	datePath := now.Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio: %w", err)
	}

	fullPath := filepath.Join(fullDirPath, uniqueFileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	if _, err = io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("copiar archivo: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("cerrar archivo: %w", err)
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

// Delete borra un adjunto; acepta la ruta relativa o la URL pública "/uploads/...".
// Un archivo inexistente no es error.
func (s *LocalFileStorage) Delete(filePath string) error {
	relativePath := strings.TrimPrefix(strings.TrimPrefix(filePath, "/uploads/"), "/")
	if relativePath == "" || strings.Contains(relativePath, "..") {
		return fmt.Errorf("ruta de adjunto inválida: %q", filePath)
	}

	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(relativePath)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("borrar adjunto: %w", err)
	}
	return nil
}
