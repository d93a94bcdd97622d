// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package bootstrap

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ddbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"
)

// fakeBuckets implements BucketAPI against in-memory state, recording calls
// so tests can assert on what was (and was not) invoked.
type fakeBuckets struct {
	exists bool

	headErr          error
	createErr        error
	listErr          error
	deleteErr        error
	versioningGetErr error
	encryptionGetErr error
	pabGetErr        error

	versions []s3types.ObjectVersion
	markers  []s3types.DeleteMarkerEntry

	createCalls        int
	lastCreateInput    *s3v2.CreateBucketInput
	versioningCalls    int
	encryptionCalls    int
	pabCalls           int
	listCalls          int
	deleteObjectsCalls int
	objectsDeleted     int
	deleteBucketCalls  int
}

func (f *fakeBuckets) HeadBucket(ctx context.Context, params *s3v2.HeadBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if !f.exists {
		return nil, &s3types.NotFound{}
	}
	return &s3v2.HeadBucketOutput{}, nil
}

func (f *fakeBuckets) CreateBucket(ctx context.Context, params *s3v2.CreateBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.CreateBucketOutput, error) {
	f.createCalls++
	f.lastCreateInput = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.exists = true
	return &s3v2.CreateBucketOutput{}, nil
}

func (f *fakeBuckets) PutBucketVersioning(ctx context.Context, params *s3v2.PutBucketVersioningInput, optFns ...func(*s3v2.Options)) (*s3v2.PutBucketVersioningOutput, error) {
	f.versioningCalls++
	return &s3v2.PutBucketVersioningOutput{}, nil
}

func (f *fakeBuckets) PutBucketEncryption(ctx context.Context, params *s3v2.PutBucketEncryptionInput, optFns ...func(*s3v2.Options)) (*s3v2.PutBucketEncryptionOutput, error) {
	f.encryptionCalls++
	return &s3v2.PutBucketEncryptionOutput{}, nil
}

func (f *fakeBuckets) PutPublicAccessBlock(ctx context.Context, params *s3v2.PutPublicAccessBlockInput, optFns ...func(*s3v2.Options)) (*s3v2.PutPublicAccessBlockOutput, error) {
	f.pabCalls++
	return &s3v2.PutPublicAccessBlockOutput{}, nil
}

func (f *fakeBuckets) GetBucketVersioning(ctx context.Context, params *s3v2.GetBucketVersioningInput, optFns ...func(*s3v2.Options)) (*s3v2.GetBucketVersioningOutput, error) {
	if f.versioningGetErr != nil {
		return nil, f.versioningGetErr
	}
	return &s3v2.GetBucketVersioningOutput{Status: s3types.BucketVersioningStatusEnabled}, nil
}

func (f *fakeBuckets) GetBucketEncryption(ctx context.Context, params *s3v2.GetBucketEncryptionInput, optFns ...func(*s3v2.Options)) (*s3v2.GetBucketEncryptionOutput, error) {
	if f.encryptionGetErr != nil {
		return nil, f.encryptionGetErr
	}
	return &s3v2.GetBucketEncryptionOutput{
		ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
			Rules: []s3types.ServerSideEncryptionRule{
				{
					ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
						SSEAlgorithm: s3types.ServerSideEncryptionAes256,
					},
				},
			},
		},
	}, nil
}

func (f *fakeBuckets) GetPublicAccessBlock(ctx context.Context, params *s3v2.GetPublicAccessBlockInput, optFns ...func(*s3v2.Options)) (*s3v2.GetPublicAccessBlockOutput, error) {
	if f.pabGetErr != nil {
		return nil, f.pabGetErr
	}
	return &s3v2.GetPublicAccessBlockOutput{
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       awsv2.Bool(true),
			BlockPublicPolicy:     awsv2.Bool(true),
			IgnorePublicAcls:      awsv2.Bool(true),
			RestrictPublicBuckets: awsv2.Bool(true),
		},
	}, nil
}

func (f *fakeBuckets) ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &s3v2.ListObjectVersionsOutput{
		Versions:      f.versions,
		DeleteMarkers: f.markers,
		IsTruncated:   awsv2.Bool(false),
	}, nil
}

func (f *fakeBuckets) DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error) {
	f.deleteObjectsCalls++
	f.objectsDeleted += len(params.Delete.Objects)
	return &s3v2.DeleteObjectsOutput{}, nil
}

func (f *fakeBuckets) DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error) {
	f.deleteBucketCalls++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.exists = false
	return &s3v2.DeleteBucketOutput{}, nil
}

// fakeTables implements TableAPI. notFoundFirstN forces the first N
// DescribeTable calls to answer not-found regardless of exists, which lets a
// test stage a lost create race (probe misses, create conflicts, waiter sees
// the table).
type fakeTables struct {
	exists bool
	status ddbtypes.TableStatus

	describeErr    error
	createErr      error
	deleteErr      error
	notFoundFirstN int

	describeCalls   int
	createCalls     int
	lastCreateInput *ddbv2.CreateTableInput
	deleteCalls     int
}

func (f *fakeTables) DescribeTable(ctx context.Context, params *ddbv2.DescribeTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.DescribeTableOutput, error) {
	f.describeCalls++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if f.describeCalls <= f.notFoundFirstN {
		return nil, &ddbtypes.ResourceNotFoundException{}
	}
	if !f.exists {
		return nil, &ddbtypes.ResourceNotFoundException{}
	}
	status := f.status
	if status == "" {
		status = ddbtypes.TableStatusActive
	}
	return &ddbv2.DescribeTableOutput{
		Table: &ddbtypes.TableDescription{
			TableName:   params.TableName,
			TableStatus: status,
		},
	}, nil
}

func (f *fakeTables) CreateTable(ctx context.Context, params *ddbv2.CreateTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.CreateTableOutput, error) {
	f.createCalls++
	f.lastCreateInput = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.exists = true
	f.status = ddbtypes.TableStatusActive
	return &ddbv2.CreateTableOutput{}, nil
}

func (f *fakeTables) DeleteTable(ctx context.Context, params *ddbv2.DeleteTableInput, optFns ...func(*ddbv2.Options)) (*ddbv2.DeleteTableOutput, error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if !f.exists {
		return nil, &ddbtypes.ResourceNotFoundException{}
	}
	f.exists = false
	return &ddbv2.DeleteTableOutput{}, nil
}

// fakeIdentity implements IdentityAPI.
type fakeIdentity struct {
	account string
	err     error
	calls   int
}

func (f *fakeIdentity) GetCallerIdentity(ctx context.Context, params *stsv2.GetCallerIdentityInput, optFns ...func(*stsv2.Options)) (*stsv2.GetCallerIdentityOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &stsv2.GetCallerIdentityOutput{Account: awsv2.String(f.account)}, nil
}

// newTestProvisioner wires the fakes into a Provisioner with the standard
// test names.
func newTestProvisioner(b *fakeBuckets, t *fakeTables, i *fakeIdentity) *Provisioner {
	p, err := New(
		WithClients(b, t, i),
		WithNames("terraform-state", "eu-north-1", "terraform-locks"),
	)
	if err != nil {
		panic(err)
	}
	return p
}
