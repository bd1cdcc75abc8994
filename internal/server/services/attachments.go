package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sc "github.com/anovikov/journalvault/internal/server/config"
	"github.com/anovikov/journalvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// presignExpiry bounds how long issued upload/download URLs stay valid.
const presignExpiry = 15 * time.Minute

// AttachmentService hands out presigned URLs so attachment blobs go straight
// to object storage; only metadata rows touch Postgres.
type AttachmentService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	config *sc.Config
}

func NewAttachmentService(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{db: db, rm: rm, config: config}
}

// newStorageKey places blobs under a date-sharded prefix.
func newStorageKey(studentID string) string {
	d := time.Now()
	return fmt.Sprintf("attachments/%s/%d/%d/%d/%v", studentID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// NewUploadURL issues a presigned PUT for a fresh storage key. The caller
// uploads the blob, then references the key in its create/update payload.
func (s *AttachmentService) NewUploadURL(ctx context.Context, studentID string) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := newStorageKey(studentID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// DownloadURL issues a presigned GET for a stored attachment key.
func (s *AttachmentService) DownloadURL(ctx context.Context, storageKey string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &storageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// MarkUploaded flips the attachment's upload status once the client confirms
// the PUT finished.
func (s *AttachmentService) MarkUploaded(ctx context.Context, id string) error {
	if err := s.rm.Attachments(s.db).MarkUploaded(ctx, id); err != nil {
		return fmt.Errorf("error updating attachment: %w", err)
	}
	return nil
}
