package layout

import (
	"time"

	"github.com/go-playground/validator/v10"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
)

// Algorithm selects the layout engine.
type Algorithm string

const (
	AlgorithmLayered  Algorithm = "layered"
	AlgorithmCompound Algorithm = "compound"
)

// Direction is the flow direction of edges.
type Direction string

const (
	DirectionDown  Direction = "down"
	DirectionUp    Direction = "up"
	DirectionRight Direction = "right"
	DirectionLeft  Direction = "left"
)

// IsHorizontal reports whether ranks run along the x axis.
func (d Direction) IsHorizontal() bool { return d == DirectionLeft || d == DirectionRight }

// IsReversed reports whether ranks run toward decreasing coordinates.
func (d Direction) IsReversed() bool { return d == DirectionUp || d == DirectionLeft }

// RankDir returns the Graphviz rankdir value for the direction.
func (d Direction) RankDir() string {
	switch d {
	case DirectionUp:
		return "BT"
	case DirectionRight:
		return "LR"
	case DirectionLeft:
		return "RL"
	default:
		return "TB"
	}
}

// Horizontal maps a vertical flow to the matching horizontal one
// (down to right, up to left). Horizontal flows are returned unchanged.
func (d Direction) Horizontal() Direction {
	switch d {
	case DirectionUp:
		return DirectionLeft
	case DirectionDown, "":
		return DirectionRight
	default:
		return d
	}
}

// Vertical maps a horizontal flow to top-to-bottom. Vertical flows are
// returned unchanged.
func (d Direction) Vertical() Direction {
	if d.IsHorizontal() {
		return DirectionDown
	}
	return d
}

// Alignment selects how nodes are aligned to their neighbours within a rank.
// The empty alignment averages the upper-left and upper-right placements.
type Alignment string

const (
	AlignBalanced  Alignment = ""
	AlignUpLeft    Alignment = "UL"
	AlignUpRight   Alignment = "UR"
	AlignDownLeft  Alignment = "DL"
	AlignDownRight Alignment = "DR"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAlgorithm             = AlgorithmLayered
	DefaultDirection             = DirectionDown
	DefaultBoundaryPadding       = 40.0
	DefaultNestedBoundarySpacing = 30.0
	DefaultMinBoundaryWidth      = 300.0
	DefaultMinBoundaryHeight     = 200.0
	DefaultImageSizePercent      = 55.0
)

// validate is the shared validator instance; it is safe for concurrent use.
var validate = validator.New()

// Options configures one layout call. It is a value: engines never mutate
// it. Zero values mean "use the default"; NodeSpacing and RankSpacing left
// at zero are derived from node sizes. BoundaryPadding and AutoResize are
// pointers so that an explicit zero or false is kept.
type Options struct {
	Algorithm             Algorithm `json:"algorithm,omitempty" toml:"algorithm" validate:"omitempty,oneof=layered compound"`
	Direction             Direction `json:"direction,omitempty" toml:"direction" validate:"omitempty,oneof=up down left right"`
	NodeSpacing           float64   `json:"nodeSpacing,omitempty" toml:"nodeSpacing" validate:"gte=0,lte=2000"`
	RankSpacing           float64   `json:"rankSpacing,omitempty" toml:"rankSpacing" validate:"gte=0,lte=2000"`
	BoundaryPadding       *float64  `json:"boundaryPadding,omitempty" toml:"boundaryPadding" validate:"omitempty,gte=0,lte=1000"`
	NestedBoundarySpacing float64   `json:"nestedBoundarySpacing,omitempty" toml:"nestedBoundarySpacing" validate:"gte=0,lte=1000"`
	AutoResize            *bool     `json:"autoResize,omitempty" toml:"autoResize"`
	Alignment             Alignment `json:"alignment,omitempty" toml:"alignment" validate:"omitempty,oneof=UL UR DL DR"`
	MinimizeOverlaps      bool      `json:"minimizeOverlaps,omitempty" toml:"minimizeOverlaps"`
	PreferAspectRatio     bool      `json:"preferAspectRatio,omitempty" toml:"preferAspectRatio"`
	MinBoundaryWidth      float64   `json:"minBoundaryWidth,omitempty" toml:"minBoundaryWidth" validate:"gte=0"`
	MinBoundaryHeight     float64   `json:"minBoundaryHeight,omitempty" toml:"minBoundaryHeight" validate:"gte=0"`
	ImageSizePercent      float64   `json:"imageSizePercent,omitempty" toml:"imageSizePercent" validate:"gte=0,lte=500"`

	// SearchTimeout bounds the layered configuration search. Zero means no
	// limit. When it expires the best configuration found so far wins.
	SearchTimeout time.Duration `json:"searchTimeout,omitempty" toml:"searchTimeout" validate:"gte=0"`

	// Parallel runs layered configuration attempts concurrently.
	Parallel bool `json:"parallel,omitempty" toml:"parallel"`
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	o.BoundaryPadding = Float64(o.Padding())
	if o.NestedBoundarySpacing == 0 {
		o.NestedBoundarySpacing = DefaultNestedBoundarySpacing
	}
	if o.AutoResize == nil {
		v := true
		o.AutoResize = &v
	} else {
		v := *o.AutoResize
		o.AutoResize = &v
	}
	if o.MinBoundaryWidth == 0 {
		o.MinBoundaryWidth = DefaultMinBoundaryWidth
	}
	if o.MinBoundaryHeight == 0 {
		o.MinBoundaryHeight = DefaultMinBoundaryHeight
	}
	if o.ImageSizePercent == 0 {
		o.ImageSizePercent = DefaultImageSizePercent
	}
	return o
}

// Padding returns the effective boundary padding.
func (o Options) Padding() float64 {
	if o.BoundaryPadding == nil {
		return DefaultBoundaryPadding
	}
	return *o.BoundaryPadding
}

// Float64 returns a pointer to v, for optional numeric options.
func Float64(v float64) *float64 { return &v }

// ShouldAutoResize reports the effective auto-resize setting.
func (o Options) ShouldAutoResize() bool {
	return o.AutoResize == nil || *o.AutoResize
}

// Validate checks field ranges and enumerations. The error carries the
// INVALID_OPTIONS code.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return nlerrors.Wrap(nlerrors.ErrCodeInvalidOptions, formatValidationError(err), "invalid layout options")
	}
	return nil
}
