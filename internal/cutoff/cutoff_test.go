package cutoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalendar() map[int]time.Time {
	return map[int]time.Time{
		2024: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		2025: time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolve(t *testing.T) {
	cal := testCalendar()
	override := map[string]time.Time{
		"202410": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		stem      string
		overrides map[string]time.Time
		want      time.Time
		valid     bool
	}{
		{
			name:  "six digit run uses following exam year",
			stem:  "202410結果",
			want:  time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "bare four digit year resolves the same",
			stem:  "2024結果",
			want:  time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:      "override wins over calendar",
			stem:      "202410結果",
			overrides: override,
			want:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			valid:     true,
		},
		{
			name:      "override keys never match a bare year",
			stem:      "2024結果",
			overrides: map[string]time.Time{"202400": time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
			want:      time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			valid:     true,
		},
		{
			name:  "year missing from calendar",
			stem:  "2025結果", // 2026 not in calendar
			valid: false,
		},
		{
			name:  "no digits at all",
			stem:  "結果まとめ",
			valid: false,
		},
		{
			name:  "first digit run wins",
			stem:  "202310と202410",
			want:  time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
			valid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.stem, tt.overrides, cal)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Time)
			}
		})
	}
}

func TestDetectYear(t *testing.T) {
	tests := []struct {
		stem string
		year int
		ok   bool
	}{
		{"202410結果", 2024, true},
		{"2024結果", 2024, true},
		{"結果", 0, false},
	}
	for _, tt := range tests {
		year, ok := DetectYear(tt.stem)
		assert.Equal(t, tt.ok, ok, tt.stem)
		assert.Equal(t, tt.year, year, tt.stem)
	}
}

func TestParseOverride(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		key, date, err := ParseOverride("202410:2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, "202410", key)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), date)
	})

	t.Run("missing colon", func(t *testing.T) {
		_, _, err := ParseOverride("202410")
		assert.Error(t, err)
	})

	t.Run("bad key", func(t *testing.T) {
		_, _, err := ParseOverride("2024:2025-03-01")
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		_, _, err := ParseOverride("202410:03/01/2025")
		assert.Error(t, err)
	})
}
