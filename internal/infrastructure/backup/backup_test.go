package backup_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/backup"
)

func artifact() inventory.ExportArtifact {
	return inventory.ExportArtifact{
		Name:        "backup_ana@example.com_2025-03-09.json",
		ContentType: inventory.ExportContentType,
		Data:        []byte("[\n  {}\n]"),
		Count:       1,
		User:        "ana@example.com",
		ExportedAt:  time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Disco
// ──────────────────────────────────────────────────────────────────────────────

func TestFSSink_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "respaldos")
	sink, err := backup.NewFSSink(dir)
	require.NoError(t, err)

	path, err := sink.Save(context.Background(), artifact())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup_ana@example.com_2025-03-09.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, artifact().Data, data)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFSSink_NoEscapaDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	sink, err := backup.NewFSSink(dir)
	require.NoError(t, err)

	a := artifact()
	a.Name = "../../fuera.json"
	path, err := sink.Save(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fuera.json"), path)
}

// ──────────────────────────────────────────────────────────────────────────────
// S3 (transporte HTTP simulado)
// ──────────────────────────────────────────────────────────────────────────────

type capturingTransport struct {
	mu     sync.Mutex
	method string
	path   string
	ctype  string
	meta   string
	body   []byte
}

func (c *capturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = req.Method
	c.path = req.URL.Path
	c.ctype = req.Header.Get("Content-Type")
	c.meta = req.Header.Get("X-Amz-Meta-Usuario")
	if req.Body != nil {
		c.body, _ = io.ReadAll(req.Body)
	}
	h := http.Header{}
	h.Set("ETag", `"etag"`)
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     h,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func TestS3Sink_Save(t *testing.T) {
	rt := &capturingTransport{}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("http://mock.s3.local")
	})
	sink := backup.NewS3SinkWithClient(client, "respaldos", "inventario/")

	loc, err := sink.Save(context.Background(), artifact())
	require.NoError(t, err)
	assert.Equal(t, "s3://respaldos/inventario/backup_ana@example.com_2025-03-09.json", loc)

	assert.Equal(t, http.MethodPut, rt.method)
	assert.Equal(t, "/respaldos/inventario/backup_ana@example.com_2025-03-09.json", rt.path)
	assert.Equal(t, inventory.ExportContentType, rt.ctype)
	assert.Equal(t, "ana@example.com", rt.meta)
	assert.Equal(t, artifact().Data, rt.body)
}
