package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
		wantOffset        int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLim: DefaultLimit, wantOffset: 0},
		{name: "second page", page: 2, limit: 10, wantPage: 2, wantLim: 10, wantOffset: 10},
		{name: "capped", page: 3, limit: 500, wantPage: 3, wantLim: MaxLimit, wantOffset: 200},
		{name: "negative", page: -4, limit: -1, wantPage: 1, wantLim: DefaultLimit, wantOffset: 0},
		{name: "huge page", page: math.MaxInt, limit: 100, wantPage: 21474837, wantLim: 100, wantOffset: 2147483600},
		{name: "overflowing product", page: math.MaxInt/20 + 2, limit: 20, wantPage: 107374183, wantLim: 20, wantOffset: 2147483640},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, l, off := Calculate(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantLim, l)
			assert.Equal(t, tt.wantOffset, off)
		})
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 10, 25)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	last := NewMeta(3, 10, 25)
	assert.False(t, last.HasNext)

	empty := NewMeta(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestCalculate_OffsetNeverNegative(t *testing.T) {
	for _, page := range []int{math.MaxInt, math.MaxInt / 2, math.MaxInt32, math.MaxInt32 + 1} {
		for _, limit := range []int{1, 7, DefaultLimit, MaxLimit} {
			_, _, off := Calculate(page, limit)
			assert.GreaterOrEqual(t, off, 0)
			assert.LessOrEqual(t, off, MaxOffset)
		}
	}
}

func TestNewMeta_HugePage(t *testing.T) {
	m := NewMeta(math.MaxInt, 10, 25)
	assert.False(t, m.HasNext)
	assert.True(t, m.HasPrev)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}
