package layout

// FixedDimensionMode constrains which axis the bounds schedule is allowed
// to grow.
type FixedDimensionMode string

const (
	FixedNone   FixedDimensionMode = "none"
	FixedWidth  FixedDimensionMode = "width"
	FixedHeight FixedDimensionMode = "height"
)

// SolverConfig controls the bounds schedule and per-attempt solver limits.
type SolverConfig struct {
	InitialWidth  *int `json:"initialWidth,omitempty" yaml:"initialWidth,omitempty" toml:"initial_width,omitempty"`
	InitialHeight *int `json:"initialHeight,omitempty" yaml:"initialHeight,omitempty" toml:"initial_height,omitempty"`

	FixedDimensionMode   FixedDimensionMode `json:"fixedDimensionMode" yaml:"fixedDimensionMode" toml:"fixed_dimension_mode"`
	ExpansionStep        int                `json:"expansionStep" yaml:"expansionStep" toml:"expansion_step"`
	MaxIterations        int                `json:"maxIterations" yaml:"maxIterations" toml:"max_iterations"`
	TimeoutMsPerAttempt  int                `json:"timeoutMsPerAttempt" yaml:"timeoutMsPerAttempt" toml:"timeout_ms_per_attempt"`

	// UseFallbackEncoding selects the degenerate arithmetic rectangle-packing
	// encoding (§4.4) instead of the authoritative cell-based routing model.
	// When true, Segments on the resulting solution are always empty.
	UseFallbackEncoding bool `json:"useFallbackEncoding,omitempty" yaml:"useFallbackEncoding,omitempty" toml:"use_fallback_encoding,omitempty"`

	// FallbackGap is the minimum empty-cell separation enforced between
	// rectangles by the fallback encoding (0 or 1).
	FallbackGap int `json:"fallbackGap,omitempty" yaml:"fallbackGap,omitempty" toml:"fallback_gap,omitempty"`
}

// DefaultSolverConfig returns the spec §6 defaults.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		FixedDimensionMode: FixedNone,
		ExpansionStep:      1,
		MaxIterations:      50,
		TimeoutMsPerAttempt: 30000,
	}
}

// Validate checks the structural preconditions spec §7 requires to fail
// fast, before any solver work begins.
func (c SolverConfig) Validate() error {
	if c.ExpansionStep <= 0 {
		return newError(KindInvalidInput, "expansionStep must be positive", nil)
	}
	if c.MaxIterations <= 0 {
		return newError(KindInvalidInput, "maxIterations must be positive", nil)
	}
	if c.TimeoutMsPerAttempt <= 0 {
		return newError(KindInvalidInput, "timeoutMsPerAttempt must be positive", nil)
	}
	if c.InitialWidth != nil && *c.InitialWidth <= 0 {
		return newError(KindInvalidInput, "initialWidth must be positive", nil)
	}
	if c.InitialHeight != nil && *c.InitialHeight <= 0 {
		return newError(KindInvalidInput, "initialHeight must be positive", nil)
	}
	switch c.FixedDimensionMode {
	case FixedNone, FixedWidth, FixedHeight, "":
	default:
		return newError(KindInvalidInput, "fixedDimensionMode must be one of none|width|height", nil)
	}
	if c.FallbackGap < 0 || c.FallbackGap > 1 {
		return newError(KindInvalidInput, "fallbackGap must be 0 or 1", nil)
	}
	return nil
}

// withDefaults fills zero-valued fields with spec §6 defaults. Exported
// config knobs are additive: a caller-supplied zero ExpansionStep or
// MaxIterations is treated as "use the default", matching the Python
// reference's Pydantic field defaults.
func (c SolverConfig) withDefaults() SolverConfig {
	d := DefaultSolverConfig()
	if c.FixedDimensionMode == "" {
		c.FixedDimensionMode = d.FixedDimensionMode
	}
	if c.ExpansionStep == 0 {
		c.ExpansionStep = d.ExpansionStep
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.TimeoutMsPerAttempt == 0 {
		c.TimeoutMsPerAttempt = d.TimeoutMsPerAttempt
	}
	return c
}

// Status is the outcome of one attempt, or the terminal solution.
type Status string

const (
	StatusSat     Status = "sat"
	StatusUnsat   Status = "unsat"
	StatusUnknown Status = "unknown"
)

// Attempt records one bounded check at a specific (W,H).
type Attempt struct {
	Iteration int    `json:"iteration" yaml:"iteration" msgpack:"iteration"`
	Width     int    `json:"width" yaml:"width" msgpack:"width"`
	Height    int    `json:"height" yaml:"height" msgpack:"height"`
	Status    Status `json:"status" yaml:"status" msgpack:"status"`
}

// Bounds is a rectangle's (width, height) in grid cells.
type Bounds struct {
	Width  int `json:"width" yaml:"width" msgpack:"width"`
	Height int `json:"height" yaml:"height" msgpack:"height"`
}

// LayoutSolution is the terminal result of one solve() session.
type LayoutSolution struct {
	Status     Status           `json:"status" yaml:"status" msgpack:"status"`
	Bounds     Bounds           `json:"bounds" yaml:"bounds" msgpack:"bounds"`
	Placements []PlacedBuilding `json:"placements" yaml:"placements" msgpack:"placements"`
	Segments   []BeltSegment    `json:"segments" yaml:"segments" msgpack:"segments"`
	Attempts   []Attempt        `json:"attempts" yaml:"attempts" msgpack:"attempts"`
	ElapsedMs  float64          `json:"elapsedMs" yaml:"elapsedMs" msgpack:"elapsedMs"`
}

// StreamItemType discriminates the tagged union of items emitted by Solve.
type StreamItemType string

const (
	ItemAttempt  StreamItemType = "attempt"
	ItemSolution StreamItemType = "solution"
)

// StreamItem is one element of the solve() progress stream: either an
// Attempt (Data is an Attempt) or the terminal solution (Data is a
// LayoutSolution).
type StreamItem struct {
	Type StreamItemType `json:"type" yaml:"type" msgpack:"type"`
	Data any            `json:"data" yaml:"data" msgpack:"data"`
}
