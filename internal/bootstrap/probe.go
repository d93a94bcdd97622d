// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ddbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tfboot/tfboot/internal/log"
)

// BucketExists reports whether the named bucket exists. Only the provider's
// documented not-found answers map to (false, nil); auth or transport
// failures are returned as errors so a run never proceeds on an undetermined
// probe.
func (p *Provisioner) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := p.Buckets.HeadBucket(ctx, &s3v2.HeadBucketInput{
		Bucket: awsv2.String(name),
	})
	if err == nil {
		log.Debugf("bucket probe: name=%s exists", name)
		return true, nil
	}

	if isBucketNotFound(err) {
		log.Debugf("bucket probe: name=%s absent", name)
		return false, nil
	}

	return false, fmt.Errorf("could not determine whether bucket %s exists: %w", name, err)
}

// TableExists reports whether the named lock table exists, with the same
// absent-versus-undetermined contract as BucketExists.
func (p *Provisioner) TableExists(ctx context.Context, name string) (bool, error) {
	_, err := p.Tables.DescribeTable(ctx, &ddbv2.DescribeTableInput{
		TableName: awsv2.String(name),
	})
	if err == nil {
		log.Debugf("table probe: name=%s exists", name)
		return true, nil
	}

	var nf *ddbtypes.ResourceNotFoundException
	if errors.As(err, &nf) {
		log.Debugf("table probe: name=%s absent", name)
		return false, nil
	}

	return false, fmt.Errorf("could not determine whether table %s exists: %w", name, err)
}

// isBucketNotFound matches the not-found shapes HeadBucket can return. The
// SDK surfaces a typed NotFound for HeadBucket and NoSuchBucket for most
// other bucket operations; a bare 404 APIError covers older endpoints.
func isBucketNotFound(err error) bool {
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket"
	}

	return false
}
