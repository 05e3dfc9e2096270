// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides which extracted images are paper content and
// which are decorative noise. The policy is a fixed-order rule list:
// byte-size check first, then filename patterns.
package classify

import (
	"path/filepath"
	"regexp"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// defaultDecorativePatterns matches filenames the extraction tool emits for
// page furniture rather than figures. The tool's naming conventions drift
// across versions, so callers can replace the set via ClassifyConfig.
var defaultDecorativePatterns = []string{
	`(?i)^header`,
	`(?i)^footer`,
	`(?i)^logo`,
	`(?i)^watermark`,
	`(?i)^banner`,
	`(?i)[_-](header|footer|logo|watermark)[_.-]`,
	`(?i)^page[_-]?(border|rule|ornament)`,
}

// rule is one named classification predicate. Rules run in slice order and
// the first rejecting rule wins.
type rule struct {
	name   string
	reason types.RejectReason
	reject func(asset types.RawImageAsset) bool
}

// Classifier applies the policy to extracted assets.
type Classifier struct {
	rules []rule
}

// New compiles a classifier from cfg. An empty pattern list uses the
// built-in defaults. Invalid patterns are reported rather than skipped so
// a config typo does not silently keep decorative images.
func New(cfg types.ClassifyConfig) (*Classifier, error) {
	minSize := cfg.MinByteSize
	if minSize <= 0 {
		minSize = 5 * 1024
	}

	patterns := cfg.DecorativePatterns
	if len(patterns) == 0 {
		patterns = defaultDecorativePatterns
	}

	rules := []rule{
		{
			// Size first: it short-circuits before any pattern matching.
			name:   "min-size",
			reason: types.ReasonTooSmall,
			reject: func(asset types.RawImageAsset) bool {
				return asset.ByteSize < minSize
			},
		},
	}

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule{
			name:   "decorative:" + p,
			reason: types.ReasonDecorative,
			reject: func(asset types.RawImageAsset) bool {
				return re.MatchString(filepath.Base(asset.Path))
			},
		})
	}

	return &Classifier{rules: rules}, nil
}

// Classify applies the rule list to one asset. Pure: no filesystem access,
// no mutation of the input.
func (c *Classifier) Classify(asset types.RawImageAsset) types.ClassifiedImage {
	for _, r := range c.rules {
		if r.reject(asset) {
			return types.ClassifiedImage{RawImageAsset: asset, Keep: false, Reason: r.reason}
		}
	}
	return types.ClassifiedImage{RawImageAsset: asset, Keep: true, Reason: types.ReasonContent}
}

// ClassifyAll maps Classify over assets, preserving order.
func (c *Classifier) ClassifyAll(assets []types.RawImageAsset) []types.ClassifiedImage {
	out := make([]types.ClassifiedImage, len(assets))
	for i, a := range assets {
		out[i] = c.Classify(a)
	}
	return out
}
