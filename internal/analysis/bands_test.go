package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindBandBounds(t *testing.T) {
	tests := []struct {
		name      string
		line      sliceLine
		start     int
		threshold float64
		tolerance int
		lo, hi    int
	}{
		{"contiguous", sliceLine{0, 0, 5, 5, 5, 0, 0}, 3, 1, 0, 2, 4},
		{"threshold counts as bright", sliceLine{0, 3, 3, 3, 0}, 2, 3, 0, 1, 3},
		{"reaches both ends", sliceLine{5, 5, 5}, 1, 1, 0, 0, 2},
		{"short gap is bridged", sliceLine{5, 0, 0, 5, 5}, 3, 1, 2, 0, 4},
		{"long gap stops the walk", sliceLine{5, 0, 0, 5, 5}, 3, 1, 1, 3, 4},
		{"trailing dark run keeps last bright", sliceLine{5, 5, 5, 0, 0, 0, 5}, 1, 1, 1, 0, 2},
		{"dark start", sliceLine{0, 0, 0, 5}, 1, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := FindBandBounds(tt.line, tt.start, tt.threshold, tt.tolerance)
			assert.Equal(t, tt.lo, lo, "lower bound")
			assert.Equal(t, tt.hi, hi, "upper bound")
		})
	}
}

func TestFindBandBoundsToleranceEdge(t *testing.T) {
	// A dark run of exactly tolerance samples is bridged; one more is not.
	line := sliceLine{9, 0, 0, 0, 9, 9}
	lo, _ := FindBandBounds(line, 4, 1, 3)
	assert.Equal(t, 0, lo)

	lo, _ = FindBandBounds(line, 4, 1, 2)
	assert.Equal(t, 4, lo)
}

func TestColumnAndRowLines(t *testing.T) {
	g := crossFrame(gray(0))

	col := Column(g, 150)
	assert.Equal(t, 100, col.Len())
	assert.Equal(t, 765, col.Brightness(40))
	assert.Equal(t, 0, col.Brightness(39))

	row := Row(g, 50)
	assert.Equal(t, 200, row.Len())
	assert.Equal(t, 765, row.Brightness(140))
	assert.Equal(t, 0, row.Brightness(139))
}
