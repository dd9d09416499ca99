package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "composelint.schema.json"

// configSchema rejects unknown keys and out-of-range numbers before the
// document is decoded into Config.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "project": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "root": {"type": "string", "minLength": 1},
        "exclude": {"type": "array", "items": {"type": "string", "minLength": 1}}
      }
    },
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "content_emitters": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "workers": {"type": "integer", "minimum": 0},
        "cache_size": {"type": "integer", "minimum": 0}
      }
    },
    "storage": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "db": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, configSchema)
	})
	return compiledSchema, schemaErr
}

// Validate checks a raw YAML configuration document against the schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if doc == nil {
		return nil
	}

	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config for schema validation: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize config for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}
	return nil
}
