package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/printforge/printforge-api/config"
)

// StorageInterface defines the interface for model-file storage operations.
type StorageInterface interface {
	UploadModel(fileHeader *multipart.FileHeader) (string, error)
	GetPresignedURL(storageKey string) (string, error)
	DeleteModel(storageKey string) error
}

// StorageService archives uploaded model files in S3 so the print shop can
// retrieve them after checkout.
type StorageService struct {
	client *s3.Client
	bucket string
}

var storageServiceInstance StorageInterface

// InitStorageService initializes the storage service with AWS credentials.
func InitStorageService() (StorageInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	storageServiceInstance = &StorageService{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}

	return storageServiceInstance, nil
}

// GetStorageService returns the initialized storage service instance.
func GetStorageService() StorageInterface {
	return storageServiceInstance
}

// SetStorageService sets the storage service instance (primarily for testing).
func SetStorageService(service StorageInterface) {
	storageServiceInstance = service
}

// UploadModel uploads a model file to S3 and returns the storage key.
func (s *StorageService) UploadModel(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Key format: models/{timestamp}_{filename}
	timestamp := time.Now().Unix()
	filename := filepath.Base(fileHeader.Filename)
	storageKey := fmt.Sprintf("models/%d_%s", timestamp, filename)

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storageKey),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("model/stl"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return storageKey, nil
}

// GetPresignedURL generates a presigned URL for downloading a stored model.
// The URL expires after 1 hour.
func (s *StorageService) GetPresignedURL(storageKey string) (string, error) {
	if storageKey == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteModel deletes a stored model file from S3.
func (s *StorageService) DeleteModel(storageKey string) error {
	if storageKey == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete model from S3: %w", err)
	}

	return nil
}
