// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import "fmt"

// StateKey is the fixed object key the provisioning engine stores its state
// document under. It never varies with command inputs.
const StateKey = "eks-cluster/terraform.tfstate"

// Descriptor names the backend resources a backend.tf fragment points at.
type Descriptor struct {
	Bucket string
	Table  string
	Region string
	Key    string
}

// BucketName derives the globally-unique state bucket name. It is a pure
// function of its inputs: {prefix}-{accountID}-{region}.
func BucketName(prefix, accountID, region string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, accountID, region)
}
