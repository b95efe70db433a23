package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/fsutil"
)

// BackupTimeFormat is the timestamp layout of backup file names.
const BackupTimeFormat = "20060102_150405"

// defaultRegion is used when no region is configured.
const defaultRegion = "us-east-1"

// S3Config configures the S3 client.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool

	// AccessKeyID and SecretAccessKey override the default credential chain
	// when both are set.
	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient replaces the SDK transport. Used by tests.
	HTTPClient *http.Client
}

// S3ConfigFromEnv reads VARCAR_S3_* variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("VARCAR_S3_REGION"),
		Endpoint:  os.Getenv("VARCAR_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("VARCAR_S3_PATH_STYLE"), "true"),
	}
}

// Client reads and writes locations. The S3 client is created on first use,
// so purely local runs never touch AWS configuration.
type Client struct {
	cfg S3Config

	once  sync.Once
	s3    *s3.Client
	s3Err error
}

// New creates a client.
func New(cfg S3Config) *Client {
	return &Client{cfg: cfg}
}

// Open returns a reader for uri.
func (c *Client) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Opening location.", "uri", uri, "scheme", loc.Scheme)

	switch loc.Scheme {
	case SchemeS3:
		client, err := c.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &loc.Bucket, Key: &loc.Key})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", uri, err)
		}
		return out.Body, nil
	default:
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", loc.Path, err)
		}
		return f, nil
	}
}

// ReadAll reads the whole content of uri.
func (c *Client) ReadAll(ctx context.Context, uri string) ([]byte, error) {
	rc, err := c.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return data, nil
}

// Write stores data at uri. Local files are replaced atomically.
func (c *Client) Write(ctx context.Context, uri string, data []byte) error {
	loc, err := Parse(uri)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)

	switch loc.Scheme {
	case SchemeS3:
		client, err := c.s3Client(ctx)
		if err != nil {
			return err
		}
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &loc.Bucket,
			Key:         &loc.Key,
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("failed to put %s: %w", uri, err)
		}
	default:
		if err := writeFileAtomic(loc.Path, data); err != nil {
			return err
		}
	}
	logger.Debug("Wrote location.", "uri", uri, "bytes", len(data))
	return nil
}

// Backup copies uri next to itself as `<stem>_backup_<YYYYMMDD_HHMMSS><ext>`
// and returns the backup location.
func (c *Client) Backup(ctx context.Context, uri string, now time.Time) (string, error) {
	loc, err := Parse(uri)
	if err != nil {
		return "", err
	}
	data, err := c.ReadAll(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", uri, err)
	}
	stamp := now.Format(BackupTimeFormat)
	backup := fsutil.BackupName(loc.Path, stamp)
	if loc.Scheme == SchemeS3 {
		backup = "s3://" + loc.Bucket + "/" + fsutil.BackupName(loc.Key, stamp)
	}
	if err := c.Write(ctx, backup, data); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", uri, err)
	}
	ctxlog.FromContext(ctx).Info("Backup written.", "source", uri, "backup", backup)
	return backup, nil
}

func (c *Client) s3Client(ctx context.Context) (*s3.Client, error) {
	c.once.Do(func() {
		c.s3, c.s3Err = newS3Client(ctx, c.cfg)
	})
	return c.s3, c.s3Err
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible servers often reject streaming checksum trailers.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	}), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
