package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateDaysUntil(t *testing.T) {
	testCases := []struct {
		name string
		from Date
		to   Date
		want int
	}{
		{"same day", NewDate(2024, 3, 1), NewDate(2024, 3, 1), 0},
		{"next day", NewDate(2024, 3, 1), NewDate(2024, 3, 2), 1},
		{"leap day", NewDate(2024, 2, 28), NewDate(2024, 3, 1), 2},
		{"across dst start", NewDate(2024, 3, 9), NewDate(2024, 3, 11), 2},
		{"across dst end", NewDate(2024, 11, 2), NewDate(2024, 11, 4), 2},
		{"past", NewDate(2024, 3, 10), NewDate(2024, 3, 1), -9},
		{"across year", NewDate(2023, 12, 31), NewDate(2024, 1, 1), 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.DaysUntil(tc.to))
		})
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC is still the previous evening in New York
	ts := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, 3, 9), DateOf(ts, ny))
	assert.Equal(t, NewDate(2024, 3, 10), DateOf(ts, time.UTC))
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"iso date", "2024-02-29", NewDate(2024, 2, 29), false},
		{"padded", "  2024-03-05 ", NewDate(2024, 3, 5), false},
		{"slashes", "2024/03/05", NewDate(2024, 3, 5), false},
		{"empty", "", Date{}, true},
		{"garbage", "not a date", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 3, 5)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))

	var empty Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())

	data, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDateCompare(t *testing.T) {
	a, b := NewDate(2024, 1, 1), NewDate(2024, 1, 2)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(NewDate(2024, 1, 1)))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, "2024-01-31", a.AddDays(30).String())
}
