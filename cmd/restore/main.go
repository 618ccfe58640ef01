// restore reproduce un respaldo JSON en el inventario de un usuario, por el mismo camino
// de importación que la API (solo agrega; nunca borra ni sobrescribe).
//
// Uso: go run ./cmd/restore --user ana@example.com [--latin1] [--dry-run] backup.json
// El almacén se elige con STORE_DRIVER y el resto de la configuración de la API.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/store"
	"github.com/jhoicas/gestor-inventario/pkg/config"
	"github.com/jhoicas/gestor-inventario/pkg/logger"
)

type options struct {
	user   string
	latin1 bool
	dryRun bool
	path   string
}

func parseArgs(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("restore", pflag.ContinueOnError)
	fs.StringVarP(&o.user, "user", "u", "", "email del dueño del inventario")
	fs.BoolVar(&o.latin1, "latin1", false, "el archivo está en ISO-8859-1 (se detecta solo si no es UTF-8 válido)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "solo valida el archivo, no escribe en el almacén")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.user == "" {
		return o, fmt.Errorf("--user es requerido")
	}
	if fs.NArg() != 1 {
		return o, fmt.Errorf("se espera exactamente un archivo de respaldo")
	}
	o.path = fs.Arg(0)
	return o, nil
}

// readPayload lee el respaldo y lo normaliza a UTF-8.
func readPayload(r io.Reader, latin1 bool) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !latin1 && utf8.Valid(data) {
		return data, nil
	}
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder()))
}

// restore carga la sesión del usuario e importa el payload. Devuelve el reporte.
func restore(ctx context.Context, st repository.RecordStore, user string, payload []byte, log *logger.Logger) (inventory.ImportReport, error) {
	s := inventory.NewSession(user, st, inventory.WithLogger(log.Component("restore")))
	if err := s.Load(ctx); err != nil {
		return inventory.ImportReport{}, err
	}
	before := len(s.Records())
	report, err := s.Import(ctx, payload)
	if err != nil {
		return report, err
	}
	log.Info().Int("antes", before).Int("despues", len(s.Records())).Msg("inventario restaurado")
	return report, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "restore"})

	f, err := os.Open(opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir respaldo: %v\n", err)
		os.Exit(1)
	}
	payload, err := readPayload(f, opts.latin1)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer respaldo: %v\n", err)
		os.Exit(1)
	}

	if opts.dryRun {
		elems, err := inventory.SplitImportPayload(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Respaldo inválido: %v\n", err)
			os.Exit(1)
		}
		bad := 0
		for i, raw := range elems {
			if _, err := inventory.DecodeImportElement(raw); err != nil {
				bad++
				fmt.Fprintf(os.Stderr, "  ítem %d: %v\n", i, err)
			}
		}
		fmt.Printf("%d ítems en el respaldo, %d con errores (sin escribir)\n", len(elems), bad)
		return
	}

	ctx := context.Background()
	st, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("almacén remoto")
	}
	defer closeStore()

	report, err := restore(ctx, st, opts.user, payload, log)
	if err != nil {
		log.Error().Err(err).Msg("restauración fallida")
		closeStore()
		os.Exit(1)
	}
	for _, fl := range report.Failures {
		fmt.Fprintf(os.Stderr, "  ítem %d: %v\n", fl.Index, fl.Err)
	}
	fmt.Println(report.Message())
}
