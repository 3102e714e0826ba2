// Package images stores report photos submitted inline as data: URIs in an
// S3-compatible bucket and hands back their public URL.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/citycare/citycare/internal/common"
	sc "github.com/citycare/citycare/internal/server/config"
	"github.com/google/uuid"
)

// MaxImageSize bounds a decoded photo.
const MaxImageSize = 5 << 20

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// S3Store uploads photos with PutObject. The client is built on first use.
type S3Store struct {
	config *sc.Config

	once   sync.Once
	client *s3.Client
	err    error
}

func NewS3Store(cfg *sc.Config) *S3Store {
	return &S3Store{config: cfg}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	s.once.Do(func() {
		cfg, err := loadDefaultAWSConfig(ctx,
			config.WithRegion(s.config.S3Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				s.config.S3RootUser,
				s.config.S3RootPassword,
				"",
			)))
		if err != nil {
			s.err = err
			return
		}
		s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		})
	})
	return s.client, s.err
}

// Resolve turns the image reference of a new report into the URL stored
// with it. Empty and http(s) references are kept as they are; a data: URI
// is uploaded and replaced by the object's public URL.
func (s *S3Store) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case ref == "":
		return "", nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return ref, nil
	case !strings.HasPrefix(lower, "data:"):
		return "", fmt.Errorf("%w: unsupported image reference", common.ErrorValidation)
	}

	mime, data, err := ParseDataURI(ref)
	if err != nil {
		return "", err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := StorageKey(mime)
	bucket := s.config.S3Bucket
	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mime),
		ContentLength: aws.Int64(int64(len(data))),
	}); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return strings.TrimRight(s.config.S3PublicURL, "/") + "/" + key, nil
}

// StorageKey returns a fresh object key for an image of the given type.
func StorageKey(mime string) string {
	d := now().UTC()
	return fmt.Sprintf("reports/%04d/%02d/%02d/%s.%s", d.Year(), d.Month(), d.Day(), uuid.New(), extensions[mime])
}

// ParseDataURI decodes a base64 "data:image/...;base64," URI.
func ParseDataURI(uri string) (string, []byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data URI", common.ErrorValidation)
	}
	params := strings.Split(strings.TrimPrefix(strings.ToLower(header), "data:"), ";")
	mime := params[0]
	if _, ok := extensions[mime]; !ok {
		return "", nil, fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, mime)
	}
	if params[len(params)-1] != "base64" {
		return "", nil, fmt.Errorf("%w: data URI must be base64 encoded", common.ErrorValidation)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return "", nil, fmt.Errorf("%w: image larger than %d bytes", common.ErrorValidation, MaxImageSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad base64 payload", common.ErrorValidation)
	}
	if len(data) > MaxImageSize {
		return "", nil, fmt.Errorf("%w: image larger than %d bytes", common.ErrorValidation, MaxImageSize)
	}
	return mime, data, nil
}
