// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ddbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tfboot/tfboot/internal/log"
)

// defaultRegion is the provider's default region. CreateBucket rejects a
// LocationConstraint naming it.
const defaultRegion = "us-east-1"

// lockKeyAttribute is the hash key the provisioning engine writes its lock
// records under.
const lockKeyAttribute = "LockID"

// tableWaitTimeout bounds the polls for table state transitions.
const tableWaitTimeout = 5 * time.Minute

// Ensure converges the state bucket and lock table to existing, configured
// resources and returns the descriptor the fragment writer needs. Every step
// is independently idempotent; the only hard precondition is the caller
// identity lookup. There is no rollback on partial failure: a failed run is
// re-run territory.
func (p *Provisioner) Ensure(ctx context.Context) (*Descriptor, error) {
	ident, err := p.Identity.GetCallerIdentity(ctx, &stsv2.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("caller identity lookup failed, check credentials with 'aws sts get-caller-identity' or pass --profile: %w", err)
	}

	bucket := BucketName(p.Prefix, awsv2.ToString(ident.Account), p.Region)
	log.Debugf("derived bucket name: bucket=%s", bucket)

	if err := p.ensureBucket(ctx, bucket); err != nil {
		return nil, err
	}
	if err := p.applyBucketBaseline(ctx, bucket); err != nil {
		return nil, err
	}
	if err := p.ensureTable(ctx); err != nil {
		return nil, err
	}

	return &Descriptor{
		Bucket: bucket,
		Table:  p.Table,
		Region: p.Region,
		Key:    StateKey,
	}, nil
}

// ensureBucket creates the bucket if absent. An already-owned conflict from
// the create call itself is success: the probe is advisory, the create is
// authoritative, so there is no check-then-act window.
func (p *Provisioner) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := p.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		log.Warnf("bucket %s already exists, skipping create", bucket)
		return nil
	}

	input := &s3v2.CreateBucketInput{
		Bucket: awsv2.String(bucket),
	}
	// The default region rejects a LocationConstraint; every other region
	// requires one.
	if p.Region != defaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(p.Region),
		}
	}

	if _, err := p.Buckets.CreateBucket(ctx, input); err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			log.Warnf("bucket %s already exists, skipping create", bucket)
			return nil
		}
		var taken *s3types.BucketAlreadyExists
		if errors.As(err, &taken) {
			return fmt.Errorf("bucket name %s is taken by another account: %w", bucket, err)
		}
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	log.Infof("created bucket %s", bucket)
	return nil
}

// applyBucketBaseline applies versioning, default encryption, and the public
// access block. All three puts are idempotent, so they run unconditionally on
// every invocation.
func (p *Provisioner) applyBucketBaseline(ctx context.Context, bucket string) error {
	_, err := p.Buckets.PutBucketVersioning(ctx, &s3v2.PutBucketVersioningInput{
		Bucket: awsv2.String(bucket),
		VersioningConfiguration: &s3types.VersioningConfiguration{
			Status: s3types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("enable versioning on %s: %w", bucket, err)
	}

	_, err = p.Buckets.PutBucketEncryption(ctx, &s3v2.PutBucketEncryptionInput{
		Bucket: awsv2.String(bucket),
		ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
			Rules: []s3types.ServerSideEncryptionRule{
				{
					ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
						SSEAlgorithm: s3types.ServerSideEncryptionAes256,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("enable encryption on %s: %w", bucket, err)
	}

	_, err = p.Buckets.PutPublicAccessBlock(ctx, &s3v2.PutPublicAccessBlockInput{
		Bucket: awsv2.String(bucket),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       awsv2.Bool(true),
			BlockPublicPolicy:     awsv2.Bool(true),
			IgnorePublicAcls:      awsv2.Bool(true),
			RestrictPublicBuckets: awsv2.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("block public access on %s: %w", bucket, err)
	}

	log.Debugf("bucket baseline applied: bucket=%s", bucket)
	return nil
}

// ensureTable creates the lock table if absent and blocks until it reports
// active. A ResourceInUse conflict from the create call itself is success.
func (p *Provisioner) ensureTable(ctx context.Context) error {
	exists, err := p.TableExists(ctx, p.Table)
	if err != nil {
		return err
	}

	if exists {
		log.Warnf("table %s already exists, skipping create", p.Table)
	} else {
		_, err := p.Tables.CreateTable(ctx, &ddbv2.CreateTableInput{
			TableName: awsv2.String(p.Table),
			AttributeDefinitions: []ddbtypes.AttributeDefinition{
				{
					AttributeName: awsv2.String(lockKeyAttribute),
					AttributeType: ddbtypes.ScalarAttributeTypeS,
				},
			},
			KeySchema: []ddbtypes.KeySchemaElement{
				{
					AttributeName: awsv2.String(lockKeyAttribute),
					KeyType:       ddbtypes.KeyTypeHash,
				},
			},
			BillingMode: ddbtypes.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *ddbtypes.ResourceInUseException
			if !errors.As(err, &inUse) {
				return fmt.Errorf("create table %s: %w", p.Table, err)
			}
			log.Warnf("table %s already exists, skipping create", p.Table)
		} else {
			log.Infof("created table %s", p.Table)
		}
	}

	waiter := ddbv2.NewTableExistsWaiter(p.Tables)
	if err := waiter.Wait(ctx, &ddbv2.DescribeTableInput{
		TableName: awsv2.String(p.Table),
	}, tableWaitTimeout); err != nil {
		return fmt.Errorf("waiting for table %s to become active: %w", p.Table, err)
	}

	log.Debugf("table active: table=%s", p.Table)
	return nil
}
