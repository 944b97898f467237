// Package publish uploads a build directory to an S3 bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"yongpei/internal/config"
	"yongpei/internal/failure"
	"yongpei/internal/logger"
)

// ErrMissingBucket is returned when no bucket is configured.
var ErrMissingBucket = errors.New("publish.bucket is required")

const maxConcurrentUploads = 5

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads files under a key prefix.
type Publisher struct {
	client ObjectPutter
	logger *logger.Logger
	bucket string
	prefix string
	dryRun bool
}

// PublishResult contains the results of a publish run.
type PublishResult struct {
	Errors   []error
	Keys     []string
	Uploaded int
	Bytes    int64
}

// NewS3Publisher creates a publisher backed by an S3 client from the default
// AWS credential chain.
func NewS3Publisher(ctx context.Context, cfg config.PublishConfig, log *logger.Logger) (*Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return NewPublisherWithClient(s3.NewFromConfig(awsCfg), cfg, log), nil
}

// NewPublisherWithClient creates a publisher with a custom client (useful for testing).
func NewPublisherWithClient(client ObjectPutter, cfg config.PublishConfig, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}

	return &Publisher{
		client: client,
		logger: log,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}
}

// SetDryRun makes Publish list the keys without uploading.
func (p *Publisher) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// Publish uploads every file under dir. Per-file failures are collected in
// the result; the error return is for failures that stop the whole run.
func (p *Publisher) Publish(ctx context.Context, dir string) (*PublishResult, error) {
	if p.bucket == "" {
		return nil, ErrMissingBucket
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{}

	for _, rel := range files {
		result.Keys = append(result.Keys, ObjectKey(p.prefix, rel))
	}

	if p.dryRun {
		for _, key := range result.Keys {
			p.logger.Info("Dry run", "key", key, "bucket", p.bucket)
		}

		return result, nil
	}

	p.logger.Info("Starting upload", "files", len(files), "bucket", p.bucket, "prefix", p.prefix)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, maxConcurrentUploads)
	)

	for i, rel := range files {
		wg.Add(1)

		go func(rel, key string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			size, err := p.upload(ctx, filepath.Join(dir, rel), key)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				p.logger.Error("Failed to upload", "key", key, "error", err)
				result.Errors = append(result.Errors, err)

				return
			}

			result.Uploaded++
			result.Bytes += size

			processed := result.Uploaded + len(result.Errors)
			if processed%50 == 0 || processed == len(files) {
				p.logger.Info("Upload progress", "done", processed, "total", len(files))
			}
		}(rel, result.Keys[i])
	}

	wg.Wait()

	return result, nil
}

func (p *Publisher) upload(ctx context.Context, filePath, key string) (int64, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", failure.ErrFilesystem, filePath, err)
	}

	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", failure.ErrFilesystem, filePath, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType(filePath)),
	}

	// pages change every build; assets keep the bucket's default caching
	if strings.HasSuffix(filePath, ".html") {
		input.CacheControl = aws.String("no-cache")
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return info.Size(), nil
}

// ObjectKey joins prefix and a slash-separated relative path.
func ObjectKey(prefix, rel string) string {
	return path.Join(prefix, filepath.ToSlash(rel))
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}

// listFiles returns regular files under dir in lexical order.
func listFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", failure.ErrFilesystem, dir, err)
	}

	return files, nil
}
