package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/provider/seedfile"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Provider reads a catalog seed document from an S3 compatible bucket.
// The object name extension selects JSON or YAML decoding.
type Provider struct {
	client *minio.Client
	bucket string
	object string
	format seedfile.Format
	logger *logger.Logger
}

// NewProvider connects to the bucket and fails fast when it does not exist.
func NewProvider(ctx context.Context, cfg config.S3Config, log *logger.Logger) (*Provider, error) {
	log = log.Named("s3")
	log.Info("Initializing S3 catalog provider",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.String("object", cfg.Object),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	format, err := seedfile.FormatFromName(cfg.Object)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		log.Error("failed to create MinIO client", zap.Error(err))
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("catalog bucket %s does not exist", cfg.Bucket)
	}

	return &Provider{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
		format: format,
		logger: log,
	}, nil
}

func (p *Provider) Load(ctx context.Context) (*domain.Catalog, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, p.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", p.object, p.bucket, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		p.logger.Error("failed to read catalog object", zap.String("object", p.object), zap.Error(err))
		return nil, fmt.Errorf("failed to read object %s from bucket %s: %w", p.object, p.bucket, err)
	}

	c, err := seedfile.Decode(data, p.format)
	if err != nil {
		return nil, err
	}
	p.logger.Info("catalog loaded from bucket",
		zap.String("bucket", p.bucket),
		zap.String("object", p.object),
		zap.Int("listings", len(c.Listings)),
	)
	return c, nil
}
