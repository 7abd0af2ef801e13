package spacing

import (
	"testing"

	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

func TestAdaptive(t *testing.T) {
	tests := []struct {
		name string
		avg  geometry.Size
		dir  layout.Direction
		want Spacing
	}{
		{"default devices", geometry.Size{W: 140, H: 110}, layout.DirectionDown, Spacing{42, 57, 10}},
		{"small clamped", geometry.Size{W: 10, H: 10}, layout.DirectionDown, Spacing{42, 57, 10}},
		{"large", geometry.Size{W: 300, H: 200}, layout.DirectionDown, Spacing{90, 104, 10}},
		{"horizontal swaps", geometry.Size{W: 300, H: 200}, layout.DirectionRight, Spacing{60, 156, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Adaptive(tt.avg, tt.dir); got != tt.want {
				t.Errorf("Adaptive() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTwoDefaultDevicesMeetMinimums(t *testing.T) {
	avg := geometry.Size{W: 140, H: 110}
	s := ForContainer(avg, 2, layout.DirectionDown, layout.Options{})
	if s.NodeSep < MinNodeSep {
		t.Errorf("NodeSep = %v, want >= %v", s.NodeSep, MinNodeSep)
	}
	if s.RankSep < MinRankSep {
		t.Errorf("RankSep = %v, want >= %v", s.RankSep, MinRankSep)
	}
}

func TestCrowdingFactor(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 1},
		{10, 0.8},
		{20, 0.6},
		{100, 0.6},
	}
	for _, tt := range tests {
		if got := CrowdingFactor(tt.n); got != tt.want {
			t.Errorf("CrowdingFactor(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestForContainer(t *testing.T) {
	avg := geometry.Size{W: 140, H: 110}

	plain := ForContainer(avg, 10, layout.DirectionDown, layout.Options{})
	if plain.NodeSep != 34 || plain.RankSep != 46 {
		t.Errorf("ForContainer(10) = %+v, want NodeSep 34 RankSep 46", plain)
	}

	inflated := ForContainer(avg, 10, layout.DirectionDown, layout.Options{MinimizeOverlaps: true})
	if inflated.NodeSep <= plain.NodeSep || inflated.RankSep <= plain.RankSep {
		t.Errorf("MinimizeOverlaps did not inflate spacing: %+v vs %+v", inflated, plain)
	}

	explicit := ForContainer(avg, 0, layout.DirectionDown, layout.Options{NodeSpacing: 80, RankSpacing: 120})
	if explicit.NodeSep != 80 || explicit.RankSep != 120 {
		t.Errorf("explicit spacing = %+v, want 80/120", explicit)
	}
}
