package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/nestlayout/pkg/layout"
)

// optionFlags binds layout options to command flags. Flags override the
// values of an optional TOML preset given with --config.
type optionFlags struct {
	config       string
	algorithm    string
	direction    string
	alignment    string
	noAutoResize bool
	padding      float64
	opts         layout.Options
	flags        *pflag.FlagSet
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	f.flags = fl
	fl.StringVarP(&f.config, "config", "c", "", "TOML preset with layout options")
	fl.StringVarP(&f.algorithm, "algorithm", "a", "", "layout engine: layered (default), compound")
	fl.StringVarP(&f.direction, "direction", "d", "", "flow direction: down (default), up, left, right")
	fl.StringVar(&f.alignment, "alignment", "", "node alignment: UL, UR, DL, DR (default balanced)")
	fl.Float64Var(&f.opts.NodeSpacing, "node-spacing", 0, "spacing between nodes in a rank (default adaptive)")
	fl.Float64Var(&f.opts.RankSpacing, "rank-spacing", 0, "spacing between ranks (default adaptive)")
	fl.Float64Var(&f.padding, "padding", layout.DefaultBoundaryPadding, "boundary padding")
	fl.Float64Var(&f.opts.NestedBoundarySpacing, "nested-spacing", 0, "extra spacing around nested boundaries")
	fl.Float64Var(&f.opts.MinBoundaryWidth, "min-width", 0, "minimum boundary width")
	fl.Float64Var(&f.opts.MinBoundaryHeight, "min-height", 0, "minimum boundary height")
	fl.Float64Var(&f.opts.ImageSizePercent, "image-size", 0, "device image size in percent")
	fl.BoolVar(&f.noAutoResize, "no-auto-resize", false, "keep boundary sizes from the input")
	fl.BoolVar(&f.opts.PreferAspectRatio, "prefer-aspect", false, "nudge boundaries toward a readable aspect ratio")
	fl.BoolVar(&f.opts.MinimizeOverlaps, "minimize-overlaps", false, "prefer layouts without overlapping nodes")
	fl.BoolVar(&f.opts.Parallel, "parallel", false, "try layered configurations concurrently")
	fl.DurationVar(&f.opts.SearchTimeout, "search-timeout", 0, "bound the layered configuration search (e.g. 2s)")
}

// resolve merges the flags over the preset and validates the result.
func (f *optionFlags) resolve() (layout.Options, error) {
	var base layout.Options
	if f.config != "" {
		preset, err := layout.LoadOptionsFile(f.config)
		if err != nil {
			return layout.Options{}, err
		}
		base = preset
	}

	override := f.opts
	override.Algorithm = layout.Algorithm(f.algorithm)
	override.Direction = layout.Direction(f.direction)
	override.Alignment = layout.Alignment(f.alignment)
	if f.flags != nil && f.flags.Changed("padding") {
		override.BoundaryPadding = layout.Float64(f.padding)
	}
	if f.noAutoResize {
		override.AutoResize = new(bool)
	}

	opts := layout.Merge(base, override)
	if err := opts.Validate(); err != nil {
		return layout.Options{}, fmt.Errorf("layout options: %w", err)
	}
	return opts, nil
}
