// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS-related helpers and adapters used by the
// bootstrap workflow to talk to S3, DynamoDB, and STS.
package aws
