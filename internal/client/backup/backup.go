// Package backup uploads snapshots of the local database to an
// S3-compatible bucket.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/memodo/internal/dbx"
)

const (
	prefix     = "snapshots/"
	timeLayout = "20060102T150405.000000000Z"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("backup is not configured")

type Config struct {
	Bucket   string
	Endpoint string
	Region   string

	// Static credentials; when empty the default AWS chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// Snapshot is one uploaded copy of the database.
type Snapshot struct {
	Key     string
	Size    int64
	TakenAt time.Time
}

// ObjectStore is the part of the S3 API the uploader uses.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Uploader struct {
	s3     ObjectStore
	bucket string
	now    func() time.Time
}

// New builds an uploader from cfg. Path-style addressing is used whenever a
// custom endpoint is set.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrDisabled
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewFromClient(client, cfg.Bucket), nil
}

func NewFromClient(c ObjectStore, bucket string) *Uploader {
	return &Uploader{s3: c, bucket: bucket, now: time.Now}
}

// Snapshot copies db into a temporary file with VACUUM INTO and uploads it.
// It returns the object key.
func (u *Uploader) Snapshot(ctx context.Context, db dbx.DBTX) (string, error) {
	dir, err := os.MkdirTemp("", "memodo-backup-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("vacuum into: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	key := prefix + u.now().UTC().Format(timeLayout) + ".db"
	_, err = u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	return key, nil
}

// List returns uploaded snapshots, newest first.
func (u *Uploader) List(ctx context.Context) ([]Snapshot, error) {
	var out []Snapshot
	var token *string
	for {
		res, err := u.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(u.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}

		for _, obj := range res.Contents {
			key := aws.ToString(obj.Key)
			taken, ok := parseKey(key)
			if !ok {
				continue
			}
			out = append(out, Snapshot{Key: key, Size: aws.ToInt64(obj.Size), TakenAt: taken})
		}

		if !aws.ToBool(res.IsTruncated) {
			break
		}
		token = res.NextContinuationToken
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	return out, nil
}

func parseKey(key string) (time.Time, bool) {
	name, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return time.Time{}, false
	}
	name, ok = strings.CutSuffix(name, ".db")
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, name)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
