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
	"github.com/dustin/go-humanize"

	"github.com/tfboot/tfboot/internal/log"
)

// deleteBatchSize is the provider's maximum DeleteObjects batch.
const deleteBatchSize = 1000

// TeardownResult summarizes what a teardown actually removed.
type TeardownResult struct {
	ObjectsDeleted int64
	BytesDeleted   int64
	BucketDeleted  bool
	TableDeleted   bool
}

// Teardown empties and deletes the state bucket, then deletes the lock table
// and blocks until its deletion is confirmed. Absence of either resource is a
// warning, not a failure. There are no retries: a transient failure leaves
// the backend partially cleaned and the operator re-runs.
func (p *Provisioner) Teardown(ctx context.Context, desc *Descriptor) (*TeardownResult, error) {
	res := &TeardownResult{}

	if err := p.destroyBucket(ctx, desc.Bucket, res); err != nil {
		return res, err
	}
	if err := p.destroyTable(ctx, desc.Table, res); err != nil {
		return res, err
	}

	return res, nil
}

// destroyBucket removes every object version and delete marker, then the
// bucket itself.
func (p *Provisioner) destroyBucket(ctx context.Context, bucket string, res *TeardownResult) error {
	exists, err := p.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		log.Warnf("bucket %s not found, skipping", bucket)
		return nil
	}

	if err := p.emptyBucket(ctx, bucket, res); err != nil {
		return err
	}

	if _, err := p.Buckets.DeleteBucket(ctx, &s3v2.DeleteBucketInput{
		Bucket: awsv2.String(bucket),
	}); err != nil {
		if isBucketNotFound(err) {
			log.Warnf("bucket %s not found, skipping", bucket)
			return nil
		}
		return fmt.Errorf("delete bucket %s: %w", bucket, err)
	}

	res.BucketDeleted = true
	log.Infof("deleted bucket %s", bucket)
	return nil
}

// emptyBucket pages through all object versions and delete markers and
// removes them in provider-sized batches.
func (p *Provisioner) emptyBucket(ctx context.Context, bucket string, res *TeardownResult) error {
	paginator := s3v2.NewListObjectVersionsPaginator(p.Buckets, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(bucket),
	})

	var batch []s3types.ObjectIdentifier
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := p.Buckets.DeleteObjects(ctx, &s3v2.DeleteObjectsInput{
			Bucket: awsv2.String(bucket),
			Delete: &s3types.Delete{
				Objects: batch,
				Quiet:   awsv2.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("delete objects in %s: %w", bucket, err)
		}
		res.ObjectsDeleted += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isBucketNotFound(err) {
				log.Warnf("bucket %s not found, skipping", bucket)
				return nil
			}
			return fmt.Errorf("list object versions in %s: %w", bucket, err)
		}

		for _, v := range page.Versions {
			batch = append(batch, s3types.ObjectIdentifier{
				Key:       v.Key,
				VersionId: v.VersionId,
			})
			res.BytesDeleted += awsv2.ToInt64(v.Size)
			if len(batch) == deleteBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		for _, d := range page.DeleteMarkers {
			batch = append(batch, s3types.ObjectIdentifier{
				Key:       d.Key,
				VersionId: d.VersionId,
			})
			if len(batch) == deleteBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	log.Infof("emptied bucket %s: %s objects, %s",
		bucket,
		humanize.Comma(res.ObjectsDeleted),
		humanize.Bytes(uint64(res.BytesDeleted)))
	return nil
}

// destroyTable deletes the lock table and blocks until the provider confirms
// it is gone.
func (p *Provisioner) destroyTable(ctx context.Context, table string, res *TeardownResult) error {
	if _, err := p.Tables.DeleteTable(ctx, &ddbv2.DeleteTableInput{
		TableName: awsv2.String(table),
	}); err != nil {
		var nf *ddbtypes.ResourceNotFoundException
		if errors.As(err, &nf) {
			log.Warnf("table %s not found, skipping", table)
			return nil
		}
		return fmt.Errorf("delete table %s: %w", table, err)
	}

	waiter := ddbv2.NewTableNotExistsWaiter(p.Tables)
	if err := waiter.Wait(ctx, &ddbv2.DescribeTableInput{
		TableName: awsv2.String(table),
	}, tableWaitTimeout); err != nil {
		return fmt.Errorf("waiting for table %s deletion: %w", table, err)
	}

	res.TableDeleted = true
	log.Infof("deleted table %s", table)
	return nil
}
