package infrastructure

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
)

// R2Config holds the Cloudflare R2 bucket settings
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	CDNBaseURL      string
}

// R2ProofStore uploads proofs to an S3 compatible Cloudflare R2 bucket
type R2ProofStore struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

// NewR2ProofStore builds an S3 client pointed at the account's R2 endpoint
func NewR2ProofStore(ctx context.Context, cfg R2Config) (*R2ProofStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	return &R2ProofStore{
		client:     client,
		bucket:     cfg.BucketName,
		cdnBaseURL: strings.TrimRight(cfg.CDNBaseURL, "/"),
	}, nil
}

// Save uploads content under proofs/name and returns its public URL, or
// the object key when no CDN is configured
func (s *R2ProofStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	ext, err := ProofExtension(name)
	if err != nil {
		return "", err
	}
	key := "proofs/" + filepath.Base(name)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(allowedProofExtensions[ext]),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload proof %s: %w", key, err)
	}

	log.WithFields(log.Fields{
		"bucket": s.bucket,
		"key":    key,
	}).Debug("Uploaded proof to R2")

	if s.cdnBaseURL == "" {
		return key, nil
	}
	return s.cdnBaseURL + "/" + key, nil
}
