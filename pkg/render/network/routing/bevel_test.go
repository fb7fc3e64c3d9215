package routing

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/fbnet/pkg/network"
)

func TestBevel(t *testing.T) {
	tests := []struct {
		name string
		in   []network.Point
		want []network.Point
	}{
		{
			name: "straight line untouched",
			in:   []network.Point{pt(0, 0), pt(100, 0)},
			want: []network.Point{pt(0, 0), pt(100, 0)},
		},
		{
			name: "right angle",
			in:   []network.Point{pt(0, 0), pt(100, 0), pt(100, 100)},
			want: []network.Point{pt(0, 0), pt(95, 0), pt(100, 5), pt(100, 100)},
		},
		{
			name: "short segment limits cut",
			in:   []network.Point{pt(0, 0), pt(10, 0), pt(10, 100)},
			want: []network.Point{pt(0, 0), pt(6, 0), pt(10, 4), pt(10, 100)},
		},
		{
			name: "tiny segment not beveled",
			in:   []network.Point{pt(0, 0), pt(1, 0), pt(1, 100)},
			want: []network.Point{pt(0, 0), pt(1, 0), pt(1, 100)},
		},
		{
			name: "collinear interior kept",
			in:   []network.Point{pt(0, 0), pt(50, 0), pt(100, 0)},
			want: []network.Point{pt(0, 0), pt(50, 0), pt(100, 0)},
		},
		{
			name: "two corners",
			in:   []network.Point{pt(0, 0), pt(50, 0), pt(50, 50), pt(100, 50)},
			want: []network.Point{pt(0, 0), pt(45, 0), pt(50, 5), pt(50, 45), pt(55, 50), pt(100, 50)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bevel(tt.in, DefaultBevel)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Bevel() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func sameDirection(ax, ay, bx, by float64) bool {
	la, lb := math.Hypot(ax, ay), math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return false
	}
	return math.Abs(ax/la-bx/lb) < 1e-9 && math.Abs(ay/la-by/lb) < 1e-9
}

func TestBevelPreservesShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	properties.Property("a true corner becomes four points along the same directions", prop.ForAll(
		func(ax, ay, inLen, outLen float64, vertical bool) bool {
			a := pt(ax, ay)
			var c, b network.Point
			if vertical {
				c = pt(ax, ay+inLen)
				b = pt(c.X+outLen, c.Y)
			} else {
				c = pt(ax+inLen, ay)
				b = pt(c.X, c.Y-outLen)
			}
			got := Bevel([]network.Point{a, c, b}, DefaultBevel)
			if len(got) != 4 || got[0] != a || got[3] != b {
				return false
			}
			return sameDirection(got[1].X-got[0].X, got[1].Y-got[0].Y, c.X-a.X, c.Y-a.Y) &&
				sameDirection(got[3].X-got[2].X, got[3].Y-got[2].Y, b.X-c.X, b.Y-c.Y)
		},
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
		gen.Float64Range(2, 400),
		gen.Float64Range(2, 400),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
