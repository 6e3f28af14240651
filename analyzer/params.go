// CLAUDE:SUMMARY Caller-visible parameter structs with clamping normalization and defaults.
package analyzer

// Defaults and bounds for caller-visible parameters. Out-of-range values
// clamp rather than error: live-session callers are usually agents, and a
// clamped answer beats a retry loop.
const (
	DefaultPageSize = 5
	MaxPageSize     = 5

	DefaultMinChainDepth  = 2
	DefaultMinChainTimeMs = 100

	DefaultMinBundleSizeKB  = 50
	DefaultMinUnusedPercent = 20
)

// PageOptions window a report. Zero value means defaults.
type PageOptions struct {
	PageSize int `json:"page_size"`
	PageIdx  int `json:"page_idx"`
}

func (o *PageOptions) normalize() {
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	if o.PageIdx < 0 {
		o.PageIdx = 0
	}
}

// ChainOptions configure chain detection. Zero values mean defaults; a
// negative MinTimeMs clamps to 0 (a caller explicitly asking for "no time
// floor" is valid).
type ChainOptions struct {
	MinDepth   int     `json:"min_chain_depth"`
	MinTimeMs  float64 `json:"min_chain_time_ms"`
	IncludeAll bool    `json:"include_all"`

	// minTimeSet distinguishes "absent" (use default 100) from an explicit 0.
	// Serving surfaces set it when the caller supplied the parameter.
	MinTimeSet bool `json:"-"`
}

func (o *ChainOptions) normalize() {
	if o.MinDepth < DefaultMinChainDepth {
		o.MinDepth = DefaultMinChainDepth
	}
	if !o.MinTimeSet && o.MinTimeMs == 0 {
		o.MinTimeMs = DefaultMinChainTimeMs
	}
	if o.MinTimeMs < 0 {
		o.MinTimeMs = 0
	}
}

// SuggestOptions filter code-split candidates. Zero values mean defaults.
type SuggestOptions struct {
	MinBundleSizeKB  int     `json:"min_bundle_size_kb"`
	MinUnusedPercent float64 `json:"min_unused_percent"`

	MinSizeSet   bool `json:"-"`
	MinUnusedSet bool `json:"-"`
}

func (o *SuggestOptions) normalize() {
	if !o.MinSizeSet && o.MinBundleSizeKB == 0 {
		o.MinBundleSizeKB = DefaultMinBundleSizeKB
	}
	if o.MinBundleSizeKB < 0 {
		o.MinBundleSizeKB = 0
	}
	if !o.MinUnusedSet && o.MinUnusedPercent == 0 {
		o.MinUnusedPercent = DefaultMinUnusedPercent
	}
	if o.MinUnusedPercent < 0 {
		o.MinUnusedPercent = 0
	}
	if o.MinUnusedPercent > 100 {
		o.MinUnusedPercent = 100
	}
}
