package postprocessors

import (
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/postprocessors/segmenter"
)

// DefaultSegmenter is the name of the built-in rule marker segmenter.
const DefaultSegmenter = "segmenter"

// RegisterDefaults registers all built-in segmenters with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(DefaultSegmenter, buildSegmenter)
}

// buildSegmenter creates a rule marker segmenter from generic config.
// Supported config keys:
//   - marker_pattern (string): Rule marker expression with one capture group
//   - min_content (int): Minimum trimmed content length (default: 1)
func buildSegmenter(cfg map[string]any) (driven.Segmenter, error) {
	var opts []segmenter.Option

	if cfg != nil {
		if pattern, ok := cfg["marker_pattern"].(string); ok && pattern != "" {
			opts = append(opts, segmenter.WithMarkerPattern(pattern))
		}
		if n := getIntFromConfig(cfg, "min_content"); n > 0 {
			opts = append(opts, segmenter.WithMinContent(n))
		}
	}

	return segmenter.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
