package domain_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_backoffice/internal/domain"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name             string
		original, picked []int64
		link, unlink     []int64
	}{
		{"nothing changed", []int64{1, 2}, []int64{2, 1}, []int64{}, []int64{}},
		{"all new", nil, []int64{3, 1}, []int64{1, 3}, []int64{}},
		{"all removed", []int64{4, 5}, nil, []int64{}, []int64{4, 5}},
		{"mixed", []int64{1, 2, 3}, []int64{3, 4}, []int64{4}, []int64{1, 2}},
		{"duplicates collapse", []int64{1, 1}, []int64{2, 2, 1}, []int64{2}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := domain.Diff(tc.original, tc.picked)
			assert.Equal(t, tc.link, d.Link)
			assert.Equal(t, tc.unlink, d.Unlink)
		})
	}
}

func TestDiff_Disjoint(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	gen := func() []int64 {
		out := make([]int64, r.Intn(12))
		for i := range out {
			out[i] = int64(r.Intn(10))
		}
		return out
	}
	for i := 0; i < 500; i++ {
		orig, sel := gen(), gen()
		d := domain.Diff(orig, sel)

		seen := map[int64]bool{}
		for _, id := range d.Link {
			seen[id] = true
		}
		for _, id := range d.Unlink {
			require.False(t, seen[id], "id %d in both sets for %v -> %v", id, orig, sel)
		}
	}
}

func TestSelection(t *testing.T) {
	s := domain.NewSelection([]int64{1, 2})
	assert.False(t, s.Dirty())

	assert.True(t, s.Toggle(3))
	assert.False(t, s.Toggle(1))
	assert.True(t, s.Selected(3))
	assert.False(t, s.Selected(1))
	assert.Equal(t, []int64{2, 3}, s.Current())
	assert.Equal(t, []int64{1, 2}, s.Original())

	d := s.Diff()
	assert.Equal(t, []int64{3}, d.Link)
	assert.Equal(t, []int64{1}, d.Unlink)

	// toggling back restores the clean state
	s.Toggle(3)
	s.Toggle(1)
	assert.False(t, s.Dirty())

	s.Set([]int64{9})
	assert.True(t, s.Dirty())
	s.Reset()
	assert.Equal(t, []int64{1, 2}, s.Current())
}

func TestSelection_ZeroValue(t *testing.T) {
	var s domain.Selection
	assert.True(t, s.Toggle(5))
	assert.Equal(t, []int64{5}, s.Diff().Link)
}
