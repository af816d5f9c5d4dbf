package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/util"
)

// Export writes v to path as JSON, or as YAML when the extension is .yaml or
// .yml.
func Export(path string, v any) error {
	var buf bytes.Buffer
	var err error
	if util.FormatFromPath(path) == FormatYAML {
		err = encodeYAML(&buf, v)
	} else {
		err = encodeJSON(&buf, v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadResult reads an aggregate result previously written by Export.
func LoadResult(path string) (*metrics.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if util.FormatFromPath(path) == FormatYAML {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	var res metrics.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &res, nil
}
