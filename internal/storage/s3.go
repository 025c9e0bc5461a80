package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"learnhub/course-platform/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// cdnStorage implements FileStorage using an S3-compatible backend
// fronting the public CDN.
type cdnStorage struct {
	client        *s3.Client
	bucketName    string
	publicBaseURL string
	cfg           config.CDNConfig
}

// NewCDNStorage creates the remote storage backend from config.
func NewCDNStorage(cfg config.CDNConfig) (FileStorage, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, Bunny, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws", // Usually "aws" even for compatible storage
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for CDN storage: %v", err)
		return nil, err
	}

	// Force path-style addressing required by most S3-compatible services
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("INFO: CDN storage initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &cdnStorage{
		client:        s3Client,
		bucketName:    cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		cfg:           cfg,
	}, nil
}

// Upload puts the object to the bucket under folder/key. The attempt is
// bounded by the configured upload timeout so a hung provider fails
// over instead of hanging the request.
func (s *cdnStorage) Upload(ctx context.Context, key, folder, contentType string, data []byte) (string, error) {
	if s.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.UploadTimeout)
		defer cancel()
	}

	objectPath := folder + "/" + key
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectPath),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("cdn put %q: %w", objectPath, err)
	}

	return s.URL(key, folder), nil
}

// Delete removes an object from the bucket.
func (s *cdnStorage) Delete(ctx context.Context, key, folder string) error {
	objectPath := folder + "/" + key
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete object '%s' from bucket '%s': %v", objectPath, s.bucketName, err)
		return err
	}
	return nil
}

// URL returns the pull-zone URL the object is publicly served from.
func (s *cdnStorage) URL(key, folder string) string {
	return s.publicBaseURL + "/" + folder + "/" + key
}
