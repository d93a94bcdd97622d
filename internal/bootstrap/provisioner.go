// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"errors"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ddbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"

	awsx "github.com/tfboot/tfboot/internal/aws"
)

// BucketAPI is the slice of the S3 client the provisioner needs. The concrete
// *s3.Client satisfies it; tests substitute fakes.
type BucketAPI interface {
	HeadBucket(ctx context.Context, params *s3v2.HeadBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3v2.CreateBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.CreateBucketOutput, error)
	PutBucketVersioning(ctx context.Context, params *s3v2.PutBucketVersioningInput, optFns ...func(*s3v2.Options)) (*s3v2.PutBucketVersioningOutput, error)
	PutBucketEncryption(ctx context.Context, params *s3v2.PutBucketEncryptionInput, optFns ...func(*s3v2.Options)) (*s3v2.PutBucketEncryptionOutput, error)
	PutPublicAccessBlock(ctx context.Context, params *s3v2.PutPublicAccessBlockInput, optFns ...func(*s3v2.Options)) (*s3v2.PutPublicAccessBlockOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3v2.GetBucketVersioningInput, optFns ...func(*s3v2.Options)) (*s3v2.GetBucketVersioningOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3v2.GetBucketEncryptionInput, optFns ...func(*s3v2.Options)) (*s3v2.GetBucketEncryptionOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3v2.GetPublicAccessBlockInput, optFns ...func(*s3v2.Options)) (*s3v2.GetPublicAccessBlockOutput, error)
	ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error)
	DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error)
}

// TableAPI is the slice of the DynamoDB client the provisioner needs. It also
// satisfies the SDK's DescribeTableAPIClient, so the table waiters can poll
// through it.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *ddbv2.DescribeTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *ddbv2.CreateTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *ddbv2.DeleteTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.DeleteTableOutput, error)
}

// IdentityAPI is the caller-identity lookup the bucket name derivation
// depends on.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *stsv2.GetCallerIdentityInput, optFns ...func(*stsv2.Options)) (*stsv2.GetCallerIdentityOutput, error)
}

// Provisioner runs the backend lifecycle operations against live cloud
// state. There is no in-process state beyond the supplied configuration;
// each invocation is a fresh, single-threaded run.
type Provisioner struct {
	Buckets  BucketAPI
	Tables   TableAPI
	Identity IdentityAPI

	Prefix string
	Region string
	Table  string
}

// Option customizes a Provisioner under construction.
type Option = func(p *Provisioner) error

// New constructs a Provisioner from the given options. At least one of
// FromConfig or WithClients must supply the service clients.
func New(options ...Option) (*Provisioner, error) {
	p := &Provisioner{}

	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.Buckets == nil || p.Tables == nil || p.Identity == nil {
		return nil, errors.New("provisioner requires s3, dynamodb, and sts clients")
	}

	return p, nil
}

// FromConfig builds the service clients from a loaded AWS config.
func FromConfig(cfg awsv2.Config) Option {
	return func(p *Provisioner) error {
		p.Buckets = awsx.NewS3(cfg)
		p.Tables = awsx.NewDynamoDB(cfg)
		p.Identity = awsx.NewSTS(cfg)
		return nil
	}
}

// WithClients injects pre-built clients. Tests use this to substitute fakes.
func WithClients(buckets BucketAPI, tables TableAPI, identity IdentityAPI) Option {
	return func(p *Provisioner) error {
		p.Buckets = buckets
		p.Tables = tables
		p.Identity = identity
		return nil
	}
}

// WithNames sets the bucket-name prefix, region, and lock table name.
func WithNames(prefix, region, table string) Option {
	return func(p *Provisioner) error {
		p.Prefix = prefix
		p.Region = region
		p.Table = table
		return nil
	}
}
