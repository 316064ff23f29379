package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const keyTimeFormat = "2006/01/02/150405"

type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores exported files in an S3 bucket.
type Archiver struct {
	client S3Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewArchiver(client S3Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key builds the object key for filename at t.
func (a *Archiver) Key(filename string, t time.Time) string {
	return path.Join(a.prefix, fmt.Sprintf("%s-%s", t.UTC().Format(keyTimeFormat), filename))
}

// Store uploads data and returns the object key.
func (a *Archiver) Store(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := a.Key(filename, a.now())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, a.bucket, err)
	}
	return key, nil
}
