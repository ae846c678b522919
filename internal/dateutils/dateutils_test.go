package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUS(t *testing.T) {
	tests := []struct {
		name      string
		cell      string
		expectErr bool
		expectedY int
		expectedM time.Month
		expectedD int
	}{
		{"Plain date", "07/01/2015", false, 2015, time.July, 1},
		{"With time component", "12/31/2016 00:00:00", false, 2016, time.December, 31},
		{"Surrounding spaces", "  01/15/2017  ", false, 2017, time.January, 15},
		{"Empty", "", true, 0, 0, 0},
		{"ISO is rejected", "2017-01-15", true, 0, 0, 0},
		{"Garbage", "n/a", true, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUS(tt.cell)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedY, got.Year())
			assert.Equal(t, tt.expectedM, got.Month())
			assert.Equal(t, tt.expectedD, got.Day())
		})
	}
}

func TestDateText(t *testing.T) {
	assert.Equal(t, "07/01/2015", DateText("07/01/2015 00:00:00"))
	assert.Equal(t, "07/01/2015", DateText(" 07/01/2015"))
	assert.Equal(t, "", DateText("   "))
}

func TestWindowContains(t *testing.T) {
	w := DefaultWindow()

	assert.True(t, w.Contains(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2040, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2016, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(1979, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2041, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(1016, 6, 30, 0, 0, 0, 0, time.UTC)))
}

func TestNextDayAndFormat(t *testing.T) {
	end, err := ParseUS("12/31/2016")
	require.NoError(t, err)

	next := NextDay(end)
	assert.Equal(t, "01/01/2017", FormatUS(next))
	assert.Equal(t, "01/01/2017 00:00:00", FormatUSFull(next))
}

func TestCompareDates(t *testing.T) {
	d1 := time.Date(2015, 6, 30, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, -1, CompareDates(d1, d2))
	assert.Equal(t, 1, CompareDates(d2, d1))
	assert.Equal(t, 0, CompareDates(d1, time.Date(2015, 6, 30, 1, 0, 0, 0, time.UTC)))
}

func TestParseISO(t *testing.T) {
	got, err := ParseISO("2015-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.July, got.Month())

	_, err = ParseISO("07/01/2015")
	assert.Error(t, err)
}
