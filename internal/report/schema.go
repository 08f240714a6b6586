package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// reportSchema is the canonical structure of an emitted JSON report.
const reportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["profiling_mode", "total_elapsed", "description", "caller_name", "output"],
  "additionalProperties": false,
  "properties": {
    "profiling_mode": {
      "enum": ["timing", "alloc-bytes-total", "alloc-bytes-max", "alloc-count-total", "alloc-count-max"]
    },
    "total_elapsed": {"type": "integer", "minimum": 0},
    "description": {"type": "string"},
    "caller_name": {"type": "string"},
    "output": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["calls", "avg", "total", "percent_total"],
        "properties": {
          "calls": {"type": "integer", "minimum": 0},
          "avg": {"type": "integer", "minimum": 0},
          "total": {"type": "integer", "minimum": 0},
          "percent_total": {"type": "integer", "minimum": 0},
          "dropped": {"type": "integer", "minimum": 0}
        },
        "patternProperties": {
          "^p[0-9]{1,3}$": {"type": "integer", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  }
}`

// ValidateJSON checks an emitted JSON report against the canonical schema.
func ValidateJSON(data []byte) error {
	schema, err := jsonschema.CompileString("report.schema.json", reportSchema)
	if err != nil {
		return fmt.Errorf("compiling report schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parsing report: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}
