package inventory

import (
	"context"
	"time"
)

// Observer recibe la telemetría del controlador de sesión (métricas Prometheus en producción).
type Observer interface {
	ObserveRemoteCall(op string, elapsed time.Duration, err error)
	ObserveImport(report ImportReport)
}

// BackupSink guarda una copia del artefacto exportado (disco, S3). Devuelve la ubicación final.
type BackupSink interface {
	Save(ctx context.Context, artifact ExportArtifact) (string, error)
}

// ReportGenerator genera la versión imprimible de una vista filtrada.
type ReportGenerator interface {
	GenerateInventoryPDF(ctx context.Context, user string, view View, generatedAt time.Time) ([]byte, error)
}

type nopObserver struct{}

func (nopObserver) ObserveRemoteCall(string, time.Duration, error) {}
func (nopObserver) ObserveImport(ImportReport)                     {}
