// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package storage

import (
	"bufio"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// maxLineBytes bounds a single log line; anything larger is upstream
// corruption.
const maxLineBytes = 1 << 20

// S3Store reads event logs from an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	log    zerolog.Logger
}

// NewS3Store builds an S3-backed store using the default AWS credential
// chain for the given region and bucket.
func NewS3Store(ctx context.Context, region, bucket string, log zerolog.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		log:    log.With().Str("component", "s3").Logger(),
	}, nil
}

// ScanPrefix implements ObjectStore. Objects are listed with pagination and
// streamed line by line; it never buffers a whole object.
func (s *S3Store) ScanPrefix(ctx context.Context, prefix string, fn func(line string) error) (bool, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("list objects under %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	if len(keys) == 0 {
		s.log.Warn().Str("prefix", prefix).Msg("no objects under prefix")
		return false, nil
	}

	for _, key := range keys {
		if err := s.scanObject(ctx, key, fn); err != nil {
			return true, err
		}
	}
	s.log.Debug().Str("prefix", prefix).Int("objects", len(keys)).Msg("scanned prefix")
	return true, nil
}

func (s *S3Store) scanObject(ctx context.Context, key string, fn func(line string) error) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get object %q: %w", key, err)
	}
	defer out.Body.Close()

	scanner := bufio.NewScanner(out.Body)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read object %q: %w", key, err)
	}
	return nil
}
