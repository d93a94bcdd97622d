// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ddbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/tfboot/tfboot/internal/log"
)

// Report describes the live state of the backend resources a fragment names.
type Report struct {
	Bucket              string
	BucketExists        bool
	Versioning          string
	Encryption          string
	PublicAccessBlocked bool
	Objects             int64
	StoredBytes         int64
	Table               string
	TableExists         bool
	TableStatus         string
	Region              string
	Key                 string
}

// Status probes both resources and collects their configuration. Probe
// failures abort; a missing property configuration is reported, not an error.
func (p *Provisioner) Status(ctx context.Context, desc *Descriptor) (*Report, error) {
	r := &Report{
		Bucket: desc.Bucket,
		Table:  desc.Table,
		Region: desc.Region,
		Key:    desc.Key,
	}

	bucketExists, err := p.BucketExists(ctx, desc.Bucket)
	if err != nil {
		return nil, err
	}
	r.BucketExists = bucketExists
	if bucketExists {
		if err := p.collectBucket(ctx, desc.Bucket, r); err != nil {
			return nil, err
		}
	}

	tableExists, err := p.TableExists(ctx, desc.Table)
	if err != nil {
		return nil, err
	}
	r.TableExists = tableExists
	if tableExists {
		out, err := p.Tables.DescribeTable(ctx, &ddbv2.DescribeTableInput{
			TableName: awsv2.String(desc.Table),
		})
		if err != nil {
			return nil, fmt.Errorf("describe table %s: %w", desc.Table, err)
		}
		if out.Table != nil {
			r.TableStatus = string(out.Table.TableStatus)
		}
	}

	log.Debugf("status collected: bucket=%v table=%v", r.BucketExists, r.TableExists)
	return r, nil
}

// collectBucket fills in the bucket-side report fields.
func (p *Provisioner) collectBucket(ctx context.Context, bucket string, r *Report) error {
	vers, err := p.Buckets.GetBucketVersioning(ctx, &s3v2.GetBucketVersioningInput{
		Bucket: awsv2.String(bucket),
	})
	if err != nil {
		return fmt.Errorf("get versioning on %s: %w", bucket, err)
	}
	r.Versioning = string(vers.Status)
	if r.Versioning == "" {
		r.Versioning = "Disabled"
	}

	enc, err := p.Buckets.GetBucketEncryption(ctx, &s3v2.GetBucketEncryptionInput{
		Bucket: awsv2.String(bucket),
	})
	switch {
	case err == nil:
		if cfg := enc.ServerSideEncryptionConfiguration; cfg != nil && len(cfg.Rules) > 0 {
			if def := cfg.Rules[0].ApplyServerSideEncryptionByDefault; def != nil {
				r.Encryption = string(def.SSEAlgorithm)
			}
		}
	case hasAPIErrorCode(err, "ServerSideEncryptionConfigurationNotFoundError"):
		r.Encryption = "none"
	default:
		return fmt.Errorf("get encryption on %s: %w", bucket, err)
	}

	pab, err := p.Buckets.GetPublicAccessBlock(ctx, &s3v2.GetPublicAccessBlockInput{
		Bucket: awsv2.String(bucket),
	})
	switch {
	case err == nil:
		if cfg := pab.PublicAccessBlockConfiguration; cfg != nil {
			r.PublicAccessBlocked = awsv2.ToBool(cfg.BlockPublicAcls) &&
				awsv2.ToBool(cfg.BlockPublicPolicy) &&
				awsv2.ToBool(cfg.IgnorePublicAcls) &&
				awsv2.ToBool(cfg.RestrictPublicBuckets)
		}
	case hasAPIErrorCode(err, "NoSuchPublicAccessBlockConfiguration"):
		r.PublicAccessBlocked = false
	default:
		return fmt.Errorf("get public access block on %s: %w", bucket, err)
	}

	paginator := s3v2.NewListObjectVersionsPaginator(p.Buckets, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list object versions in %s: %w", bucket, err)
		}
		r.Objects += int64(len(page.Versions))
		for _, v := range page.Versions {
			r.StoredBytes += awsv2.ToInt64(v.Size)
		}
	}

	return nil
}

// hasAPIErrorCode reports whether err carries the given provider error code.
func hasAPIErrorCode(err error, code string) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == code
}
