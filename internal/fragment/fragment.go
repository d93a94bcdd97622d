// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fragment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfboot/tfboot/internal/bootstrap"
	"github.com/tfboot/tfboot/internal/log"
)

// FileName is the generated fragment's name inside the root directory.
const FileName = "backend.tf"

const header = `# Generated by tfboot. Do not edit; rerun 'tfboot up' instead.

`

// localTemplate is the fragment shape after a teardown: the remote backend
// block fully commented out, pointing back at the setup command. Terraform
// falls back to local state.
const localTemplate = `# Generated by tfboot. The remote backend has been torn down and Terraform
# will fall back to local state. Run 'tfboot up' to recreate the backend and
# restore this block.
#
# terraform {
#   backend "s3" {
#     bucket         = "<bucket>"
#     key            = "eks-cluster/terraform.tfstate"
#     region         = "<region>"
#     dynamodb_table = "<table>"
#     encrypt        = true
#   }
# }
`

// Path returns the fragment location for the given root directory.
func Path(rootDir string) string {
	return filepath.Join(rootDir, FileName)
}

// WriteRemote overwrites the fragment with the descriptor's backend block.
// No merge with prior content: the fragment is generated, not hand-edited,
// so last writer wins.
func WriteRemote(path string, desc *bootstrap.Descriptor) error {
	f := hclwrite.NewEmptyFile()

	tfBody := f.Body().AppendNewBlock("terraform", nil).Body()
	beBody := tfBody.AppendNewBlock("backend", []string{"s3"}).Body()
	beBody.SetAttributeValue("bucket", cty.StringVal(desc.Bucket))
	beBody.SetAttributeValue("key", cty.StringVal(desc.Key))
	beBody.SetAttributeValue("region", cty.StringVal(desc.Region))
	beBody.SetAttributeValue("dynamodb_table", cty.StringVal(desc.Table))
	beBody.SetAttributeValue("encrypt", cty.True)

	content := append([]byte(header), f.Bytes()...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write fragment %s: %w", path, err)
	}

	log.Infof("wrote %s pointing at bucket %s", path, desc.Bucket)
	return nil
}

// WriteLocal overwrites the fragment with the local-state template.
func WriteLocal(path string) error {
	if err := os.WriteFile(path, []byte(localTemplate), 0o644); err != nil {
		return fmt.Errorf("write fragment %s: %w", path, err)
	}

	log.Infof("wrote %s with local-state template", path)
	return nil
}

// Parse reads the backend descriptor back out of the fragment on disk.
// Teardown depends on this: resource names are never re-derived, so the
// fragment must still match what setup created. A fragment without an active
// s3 backend block (including the local template) is an error.
func Parse(path string) (*bootstrap.Descriptor, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse fragment %s: %w", path, diags)
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse fragment %s: unexpected body type", path)
	}

	beBody := findBackendBody(body)
	if beBody == nil {
		return nil, fmt.Errorf("no active s3 backend block in %s (run 'tfboot up' first)", path)
	}

	desc := &bootstrap.Descriptor{}
	for attr, target := range map[string]*string{
		"bucket":         &desc.Bucket,
		"key":            &desc.Key,
		"region":         &desc.Region,
		"dynamodb_table": &desc.Table,
	} {
		val, err := attrString(beBody, attr)
		if err != nil {
			return nil, fmt.Errorf("fragment %s: %w", path, err)
		}
		*target = val
	}

	log.Debugf("fragment parsed: bucket=%s table=%s region=%s", desc.Bucket, desc.Table, desc.Region)
	return desc, nil
}

// findBackendBody locates the terraform { backend "s3" { ... } } body.
func findBackendBody(body *hclsyntax.Body) *hclsyntax.Body {
	for _, block := range body.Blocks {
		if block.Type != "terraform" {
			continue
		}
		for _, inner := range block.Body.Blocks {
			if inner.Type == "backend" && len(inner.Labels) == 1 && inner.Labels[0] == "s3" {
				return inner.Body
			}
		}
	}
	return nil
}

// attrString evaluates a required string attribute from the backend body.
func attrString(body *hclsyntax.Body, name string) (string, error) {
	attr, ok := body.Attributes[name]
	if !ok {
		return "", fmt.Errorf("backend block is missing %q", name)
	}

	val, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluate %q: %w", name, diags)
	}
	if val.Type() != cty.String || val.AsString() == "" {
		return "", fmt.Errorf("backend block attribute %q is not a non-empty string", name)
	}

	return val.AsString(), nil
}
