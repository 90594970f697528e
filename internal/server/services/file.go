package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	sc "github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const maxProfileImageBytes = 2 * 1024 * 1024

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// FileService stores profile images in an S3-compatible bucket (MinIO in the
// docker-compose setup). It implements ProfileImageStore.
type FileService struct {
	config *sc.Config
}

func NewFileService(config *sc.Config) *FileService {
	return &FileService{config: config}
}

func makeStorageKey() string {
	return fmt.Sprintf("profile/%v", uuid.New())
}

func (s *FileService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Save uploads the image under a fresh key and returns that key.
func (s *FileService) Save(ctx context.Context, data []byte) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := makeStorageKey()
	contentType := http.DetectContentType(data)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("error uploading object: %w", err)
	}

	return key, nil
}

// Delete removes the object with the given key.
func (s *FileService) Delete(ctx context.Context, key string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("error deleting object: %w", err)
	}

	return nil
}

// URL returns a short-lived presigned GET url for the stored image.
func (s *FileService) URL(ctx context.Context, key string) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// IsLessThan2MB reports whether the payload fits the profile image size cap.
func IsLessThan2MB(data []byte) bool {
	return len(data) <= maxProfileImageBytes
}

// IsSupportedImage sniffs the payload and accepts only PNG and JPEG.
func IsSupportedImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg":
		return true
	}
	return false
}
