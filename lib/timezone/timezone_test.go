package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		in       time.Time
		expected time.Time
	}{
		{
			in:       time.Date(2021, 3, 14, 15, 9, 26, 535, Location),
			expected: time.Date(2021, 3, 14, 0, 0, 0, 0, Location),
		},
		{
			in:       time.Date(2016, 1, 1, 0, 0, 0, 0, Location),
			expected: time.Date(2016, 1, 1, 0, 0, 0, 0, Location),
		},
		{
			in:       time.Date(2019, 12, 31, 23, 59, 59, 0, Location),
			expected: time.Date(2019, 12, 31, 0, 0, 0, 0, Location),
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Truncate(test.in))
	}
}

func TestDateLayoutRoundTrip(t *testing.T) {
	day := time.Date(2018, 7, 4, 0, 0, 0, 0, Location)
	parsed, err := time.ParseInLocation(DateLayout, day.Format(DateLayout), Location)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, day, parsed)
}
