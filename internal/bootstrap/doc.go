// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package bootstrap manages the lifecycle of the two resources backing a
// remote Terraform state backend: the versioned, encrypted S3 state bucket
// and the DynamoDB lock table. Every operation is idempotent against live
// cloud state; a rerun after a partial failure converges.
package bootstrap
