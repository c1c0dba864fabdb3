package aptitude

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	start := int64(1_700_000_000)
	test := Test{ID: 1, StartTime: start, Duration: 10}
	end := start + 600

	cases := []struct {
		name string
		at   int64
		want WindowState
	}{
		{name: "well before start", at: start - 3600, want: WindowNotStarted},
		{name: "one second before start", at: start - 1, want: WindowNotStarted},
		{name: "exactly at start", at: start, want: WindowActive},
		{name: "mid window", at: start + 300, want: WindowActive},
		{name: "last second of window", at: end - 1, want: WindowActive},
		{name: "exactly at end", at: end, want: WindowEnded},
		{name: "well after end", at: end + 3600, want: WindowEnded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(test, time.Unix(tc.at, 0)))
		})
	}
}

func TestClassifyPartitionsTime(t *testing.T) {
	// Every instant falls in exactly one state; sweep across both boundaries.
	test := Test{ID: 1, StartTime: 1000, Duration: 1}
	for ts := int64(990); ts < 1070; ts++ {
		state := Classify(test, time.Unix(ts, 0))
		switch {
		case ts < 1000:
			assert.Equal(t, WindowNotStarted, state, "ts=%d", ts)
		case ts < 1060:
			assert.Equal(t, WindowActive, state, "ts=%d", ts)
		default:
			assert.Equal(t, WindowEnded, state, "ts=%d", ts)
		}
	}
}

func TestClassifyZeroDurationNeverActive(t *testing.T) {
	test := Test{ID: 1, StartTime: 1000, Duration: 0}
	assert.Equal(t, WindowNotStarted, Classify(test, time.Unix(999, 0)))
	assert.Equal(t, WindowEnded, Classify(test, time.Unix(1000, 0)))
	assert.Equal(t, WindowEnded, Classify(test, time.Unix(1001, 0)))
}
