package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
)

// FSSink guarda cada exportación como archivo en un directorio local.
type FSSink struct {
	dir string
}

// NewFSSink crea el directorio si no existe.
func NewFSSink(dir string) (*FSSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio de respaldos: %w", err)
	}
	return &FSSink{dir: dir}, nil
}

var _ inventory.BackupSink = (*FSSink)(nil)

// Save escribe el artefacto; un respaldo del mismo día sobrescribe al anterior.
func (s *FSSink) Save(ctx context.Context, artifact inventory.ExportArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.Base(artifact.Name))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, artifact.Data, 0o640); err != nil {
		return "", fmt.Errorf("escribir respaldo: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("renombrar respaldo: %w", err)
	}
	return path, nil
}
