package seed

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client used by the loader.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for reading seed documents from AWS S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based seed loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-seed-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for region %q: %w", region, err)
	}
	logger.Info().Str("bucket", bucket).Str("region", region).Msg("seed bucket configured")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load fetches one object. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) ([]byte, error) {
	log := l.logger.With().Str("bucket", l.bucket).Str("key", key).Logger()

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Msg("get object failed")
		return nil, fmt.Errorf("get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := readDocument(ctx, out.Body)
	if err != nil {
		log.Error().Err(err).Msg("reading object body failed")
		return nil, fmt.Errorf("read s3://%s/%s: %w", l.bucket, key, err)
	}

	log.Debug().Int("bytes", len(data)).Msg("seed document fetched")
	return data, nil
}

// fallbackLoader prefers the remote bucket and reads the local copy when
// the bucket is disabled or the fetch fails.
type fallbackLoader struct {
	remote Loader
	local  Loader
	prefix string
	logger zerolog.Logger
}

// NewFallbackLoader combines a bucket loader with a directory loader. A nil
// s3Loader or s3Enabled=false leaves only the directory.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	if !s3Enabled {
		s3Loader = nil
	}
	return &fallbackLoader{
		remote: s3Loader,
		local:  fileLoader,
		prefix: s3Prefix,
		logger: logger.With().Str("component", "seed-fallback").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if l.remote == nil {
		return l.local.Load(ctx, name)
	}

	key := l.prefix + name
	data, err := l.remote.Load(ctx, key)
	if err == nil {
		return data, nil
	}
	l.logger.Warn().Err(err).Str("key", key).Str("name", name).Msg("bucket unavailable, reading local seed document")
	return l.local.Load(ctx, name)
}
