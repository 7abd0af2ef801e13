package layout

import (
	"fmt"

	"github.com/BurntSushi/toml"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
)

// LoadOptionsFile reads layout options from a TOML preset. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadOptionsFile(path string) (Options, error) {
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, nlerrors.Wrap(nlerrors.ErrCodeInvalidOptions, err, "read preset %s", path)
	}
	return o, checkUndecoded(md)
}

// ParseOptions decodes layout options from TOML text.
func ParseOptions(data string) (Options, error) {
	var o Options
	md, err := toml.Decode(data, &o)
	if err != nil {
		return Options{}, nlerrors.Wrap(nlerrors.ErrCodeInvalidOptions, err, "parse preset")
	}
	return o, checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		return nlerrors.New(nlerrors.ErrCodeInvalidOptions, "unknown preset key %q", keys[0].String())
	}
	return nil
}

// Merge returns base with every field that is set in override replacing
// the base value. CLI flags are merged over a preset this way.
func Merge(base, override Options) Options {
	if override.Algorithm != "" {
		base.Algorithm = override.Algorithm
	}
	if override.Direction != "" {
		base.Direction = override.Direction
	}
	if override.NodeSpacing != 0 {
		base.NodeSpacing = override.NodeSpacing
	}
	if override.RankSpacing != 0 {
		base.RankSpacing = override.RankSpacing
	}
	if override.BoundaryPadding != nil {
		base.BoundaryPadding = Float64(*override.BoundaryPadding)
	}
	if override.NestedBoundarySpacing != 0 {
		base.NestedBoundarySpacing = override.NestedBoundarySpacing
	}
	if override.AutoResize != nil {
		v := *override.AutoResize
		base.AutoResize = &v
	}
	if override.Alignment != "" {
		base.Alignment = override.Alignment
	}
	base.MinimizeOverlaps = base.MinimizeOverlaps || override.MinimizeOverlaps
	base.PreferAspectRatio = base.PreferAspectRatio || override.PreferAspectRatio
	base.Parallel = base.Parallel || override.Parallel
	if override.MinBoundaryWidth != 0 {
		base.MinBoundaryWidth = override.MinBoundaryWidth
	}
	if override.MinBoundaryHeight != 0 {
		base.MinBoundaryHeight = override.MinBoundaryHeight
	}
	if override.ImageSizePercent != 0 {
		base.ImageSizePercent = override.ImageSizePercent
	}
	if override.SearchTimeout != 0 {
		base.SearchTimeout = override.SearchTimeout
	}
	return base
}

// String formats the options for logs.
func (o Options) String() string {
	return fmt.Sprintf("%s/%s pad=%g align=%q", o.Algorithm, o.Direction, o.Padding(), o.Alignment)
}
