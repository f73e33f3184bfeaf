// Package publish uploads rendered clips to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fpang/frame-render/internal/metrics"
	"github.com/rs/zerolog/log"
)

// PresignExpiry is how long the returned download link stays valid.
const PresignExpiry = 7 * 24 * time.Hour

// projectTag is the URL-encoded object tagging string used for cost allocation.
const projectTag = "Project=frame-render"

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes an uploaded clip.
type Result struct {
	Bucket string
	Key    string
	URL    string
}

// Publisher uploads files under a key prefix in one bucket.
type Publisher struct {
	client  ObjectPutter
	presign *s3.PresignClient
	bucket  string
	prefix  string
	now     func() time.Time
}

// New creates a Publisher over an existing client. presign may be nil, in
// which case no download link is produced.
func New(client ObjectPutter, presign *s3.PresignClient, bucket, prefix string) *Publisher {
	return &Publisher{client: client, presign: presign, bucket: bucket, prefix: prefix, now: time.Now}
}

// NewFromEnvironment loads the default AWS configuration (environment,
// shared config, instance role) and creates a Publisher for bucket.
func NewFromEnvironment(ctx context.Context, bucket, prefix string) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return New(client, s3.NewPresignClient(client), bucket, prefix), nil
}

// Key returns the object key for a local file: <prefix>/<yyyy-mm-dd>/<name>.
func (p *Publisher) Key(localPath string) string {
	day := p.now().UTC().Format("2006-01-02")
	return path.Join(p.prefix, day, filepath.Base(localPath))
}

// Publish uploads localPath and returns where it landed.
func (p *Publisher) Publish(ctx context.Context, localPath string) (*Result, error) {
	key := p.Key(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open clip: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat clip: %w", err)
	}

	log.Debug().
		Str("bucket", p.bucket).
		Str("key", key).
		Int64("size_bytes", info.Size()).
		Msg("Uploading clip to S3")

	start := time.Now()
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("video/mp4"),
		Tagging:       aws.String(projectTag),
	})
	elapsed := time.Since(start)
	if err != nil {
		metrics.New(metrics.Namespace).
			Metric("PublishMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
			Count("PublishErrors").
			Flush()
		return nil, fmt.Errorf("failed to upload clip to S3: %w", err)
	}

	metrics.New(metrics.Namespace).
		Metric("PublishMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("PublishedBytes", float64(info.Size()), metrics.UnitBytes).
		Flush()

	result := &Result{Bucket: p.bucket, Key: key}
	if p.presign != nil {
		req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(p.bucket),
			Key:    aws.String(key),
		}, func(opts *s3.PresignOptions) {
			opts.Expires = PresignExpiry
		})
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to presign clip URL")
		} else {
			result.URL = req.URL
		}
	}

	log.Info().
		Str("bucket", p.bucket).
		Str("key", key).
		Dur("duration", elapsed).
		Msg("Clip uploaded to S3")

	return result, nil
}
