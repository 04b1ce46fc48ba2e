package benchmark

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fuzzfleet/internal/errors"
)

// Materialize writes the worker configuration for one instance: a copy of
// the instance's base config with the cores, broker_port, and prometheus_port
// keys overwritten (appended when the base lacks them). Every other key, the
// nesting, and the document order of the base survive untouched.
//
// The copy is written to destDir/<instance>.yaml. A missing or unreadable
// base is reported to the caller, which treats it as a per-instance skip,
// never as a run failure.
//
// Parameters:
//   - basePath: The resolved path of the base worker config.
//   - inst: The instance whose overrides are applied.
//   - destDir: The round directory receiving the materialized file.
//
// Returns:
//   - string: The path of the written file.
//   - error: Any read, parse, or write failure.
func Materialize(basePath string, inst Instance, destDir string) (string, error) {
	data, err := os.ReadFile(basePath)
	if err != nil {
		return "", apperrors.WrapError(err, "read base config for %s", inst.Name)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", apperrors.WrapError(err, "parse base config %s", basePath)
	}

	root := documentMapping(&doc)
	if root == nil {
		return "", apperrors.NewConfigError("base config %s is not a YAML mapping", basePath)
	}

	overrides := []struct {
		key   string
		value any
	}{
		{"cores", inst.Cores},
		{"broker_port", inst.BrokerPort},
		{"prometheus_port", inst.PrometheusPort},
	}
	for _, o := range overrides {
		if err := setMappingValue(root, o.key, o.value); err != nil {
			return "", apperrors.WrapError(err, "apply %s override for %s", o.key, inst.Name)
		}
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return "", apperrors.WrapError(err, "encode config for %s", inst.Name)
	}

	dest := filepath.Join(destDir, inst.Name+".yaml")
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return "", apperrors.WrapError(err, "write config for %s", inst.Name)
	}
	return dest, nil
}

// documentMapping returns the top-level mapping of a parsed document, or a
// fresh empty mapping when the base document is empty. Non-mapping documents
// yield nil.
func documentMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

// setMappingValue replaces the value of key in a mapping node, appending the
// pair when the key is absent. The replacement preserves the position of an
// existing key so the document order stays stable.
func setMappingValue(mapping *yaml.Node, key string, value any) error {
	val := &yaml.Node{}
	if err := val.Encode(value); err != nil {
		return err
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = val
			return nil
		}
	}

	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val,
	)
	return nil
}
