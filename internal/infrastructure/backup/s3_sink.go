package backup

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
)

// S3Config parámetros del bucket de respaldos (AWS S3 o MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Prefix    string
	Endpoint  string // opcional, p. ej. MinIO
	PathStyle bool
}

// S3Sink sube cada exportación como objeto <prefix><nombre>.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink carga credenciales por la cadena por defecto de AWS.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("cargar config AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3SinkWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SinkWithClient usa un cliente ya construido (tests).
func NewS3SinkWithClient(client *s3.Client, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

var _ inventory.BackupSink = (*S3Sink)(nil)

// Save hace PutObject y devuelve la URI s3:// del objeto.
func (s *S3Sink) Save(ctx context.Context, artifact inventory.ExportArtifact) (string, error) {
	key := s.prefix + artifact.Name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(artifact.Data),
		ContentType: aws.String(artifact.ContentType),
		Metadata: map[string]string{
			"usuario":   artifact.User,
			"items":     strconv.Itoa(artifact.Count),
			"exportado": artifact.ExportedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
