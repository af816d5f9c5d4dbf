package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the accepted configuration document.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "workers":      {"type": "integer", "minimum": 1},
    "iterations":   {"type": "integer", "minimum": 1},
    "duration":     {"type": "number", "minimum": 0},
    "include":      {"type": "string"},
    "exclude":      {"type": "string"},
    "quick":        {"type": "boolean"},
    "scale":        {"type": "integer", "minimum": 1},
    "time":         {"type": "boolean"},
    "stdev":        {"type": "boolean"},
    "sleep":        {"type": "number", "minimum": 0},
    "seed":         {"type": "integer"},
    "noPass":       {"type": "boolean"},
    "noParallel":   {"type": "boolean"},
    "keepOutliers": {"type": "boolean"},
    "quiet":        {"type": "boolean"},
    "debug":        {"type": "boolean"},
    "progress":     {"type": "boolean"},
    "format":       {"type": "string", "enum": ["text", "json", "yaml"]},
    "output":       {"type": "string"},
    "logFile":      {"type": "string"},
    "store":        {"type": "string"},
    "save":         {"type": "boolean"},
    "metricsFile":  {"type": "string"},
    "benchmarks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name":      {"type": "string", "minLength": 1},
          "workload":  {"type": "string", "minLength": 1},
          "code":      {"type": "string"},
          "reference": {"type": "number", "minimum": 0},
          "expected":  {},
          "quickArg":  {"type": "integer", "minimum": 0},
          "normalArg": {"type": "integer", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

// ValidateDocument checks a decoded configuration document against the
// configuration schema. A nil document is treated as an empty object.
func ValidateDocument(document any) error {
	if document == nil {
		document = map[string]any{}
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
