package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"spicy", SpiceSpicy},
		{"Spicy", SpiceSpicy},
		{"mild", SpiceMild},
		{"turbo hot", SpiceTurboHot},
		{"turbohot", SpiceTurboHot},
		{" TURBO   HOT ", SpiceTurboHot},
		{"no spice", SpiceNone},
		{"weird", SpiceNone},
		{"", SpiceNone},
		{"  ", SpiceNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSpice(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeSpiceIdempotent(t *testing.T) {
	for _, in := range []string{"spicy", "turbo hot", "mild", "garbage", ""} {
		once := NormalizeSpice(in)
		assert.Equal(t, once, NormalizeSpice(once))
	}
}

func TestWaitMinutes(t *testing.T) {
	base := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WaitMinutes(base, base))
	assert.Equal(t, 25, WaitMinutes(base, base.Add(25*time.Minute)))
	// 90 seconds rounds up to 2 minutes
	assert.Equal(t, 2, WaitMinutes(base, base.Add(90*time.Second)))
	// clock skew never yields a negative wait
	assert.Equal(t, 0, WaitMinutes(base, base.Add(-5*time.Minute)))
}

func TestParseCellTime(t *testing.T) {
	base := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	got, ok := ParseCellTime(FormatCellTime(base))
	assert.True(t, ok)
	assert.True(t, got.Equal(base))

	got, ok = ParseCellTime("2026-03-03 12:00:00")
	assert.True(t, ok)
	assert.True(t, got.Equal(base))

	_, ok = ParseCellTime("")
	assert.False(t, ok)
	_, ok = ParseCellTime("not a time")
	assert.False(t, ok)
}

func TestRecordNumberOr(t *testing.T) {
	rec := Record{"visits": "12", "rating": " 4.5 ", "name": "Rosa"}

	assert.Equal(t, 12.0, rec.NumberOr("visits", 0))
	assert.Equal(t, 4.5, rec.NumberOr("rating", 0))
	assert.Equal(t, 0.0, rec.NumberOr("name", 0))
	assert.Equal(t, 0.0, rec.NumberOr("missing", 0))
}
