package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day returns a UTC calendar date in March 2020, the n-th day of the month.
func day(n int) time.Time {
	return time.Date(2020, 3, n, 0, 0, 0, 0, time.UTC)
}

// confirmedSeries builds a series whose cumulative confirmed counts on
// consecutive days are the given values.
func confirmedSeries(region string, counts ...int) *Series {
	s := NewSeries(region)
	for i, c := range counts {
		s.AddDay(day(i+1), Record{Confirmed: c})
	}
	return s
}

// TestMergeCommutative verifies field-wise merge is order independent.
func TestMergeCommutative(t *testing.T) {
	a := Record{Confirmed: 10, Deaths: 1, Recovered: 3}
	b := Record{Confirmed: 20, Deaths: 0, Recovered: 7}

	assert.Equal(t, Merge(a, b), Merge(b, a))
	assert.Equal(t, Record{Confirmed: 30, Deaths: 1, Recovered: 10}, Merge(a, b))
}

// TestMergeAssociative verifies grouping does not change a merge result.
func TestMergeAssociative(t *testing.T) {
	a := Record{Confirmed: 1, Deaths: 2, Recovered: 3}
	b := Record{Confirmed: 10, Deaths: 20, Recovered: 30}
	c := Record{Confirmed: 100, Deaths: 200, Recovered: 300}

	assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))
}

// TestAddDayMerges verifies a second record for an existing day is summed
// into the stored one, not replacing it.
func TestAddDayMerges(t *testing.T) {
	s := NewSeries("Italy")
	s.AddDay(day(1), Record{Confirmed: 10, Deaths: 1})
	s.AddDay(day(1), Record{Confirmed: 20})

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, Record{Confirmed: 30, Deaths: 1}, s.Record(day(1)))
}

// TestDaysChronological verifies the day index stays sorted across
// out-of-order inserts.
func TestDaysChronological(t *testing.T) {
	s := NewSeries("Italy")
	s.AddDay(day(3), Record{Confirmed: 3})
	s.AddDay(day(1), Record{Confirmed: 1})
	s.AddDay(day(2), Record{Confirmed: 2})

	days := s.Days()
	require.Len(t, days, 3)
	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, days)
}

// TestLatest verifies the most recent record wins regardless of insert order.
func TestLatest(t *testing.T) {
	s := NewSeries("Spain")
	s.AddDay(day(5), Record{Confirmed: 500})
	s.AddDay(day(2), Record{Confirmed: 200})

	rec, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 500, rec.Confirmed)
}

// TestLatestEmpty verifies querying an empty series fails.
func TestLatestEmpty(t *testing.T) {
	_, err := NewSeries("Nowhere").Latest()
	assert.ErrorIs(t, err, ErrEmptySeries)
}

// TestTransformEpoch checks epoch alignment: for cumulative counts
// [0, 50, 80, 120, 200] the epoch is index 3, the first day over 100,
// so an unsmoothed transform yields offsets [-3, -2, -1, 0, 1].
func TestTransformEpoch(t *testing.T) {
	s := confirmedSeries("Italy", 0, 50, 80, 120, 200)

	points, err := s.Transform(0)
	require.NoError(t, err)
	require.Len(t, points, 5)

	offsets := make([]int, len(points))
	for i, pt := range points {
		offsets[i] = pt.Offset
	}
	assert.Equal(t, []int{-3, -2, -1, 0, 1}, offsets)
}

// TestTransformThresholdNeverCrossed checks that a region which never
// exceeds 100 cases has epoch n, leaving offsets [-n .. -1].
func TestTransformThresholdNeverCrossed(t *testing.T) {
	s := confirmedSeries("San Marino", 5, 20, 80, 100)

	points, err := s.Transform(0)
	require.NoError(t, err)
	require.Len(t, points, 4)

	for i, pt := range points {
		assert.Equal(t, i-4, pt.Offset)
		assert.Negative(t, pt.Offset)
	}
}

// TestTransformDeltas verifies the unsmoothed values are day-over-day
// deltas with the first day's delta equal to its own cumulative count,
// and that summing them reconstructs the cumulative series.
func TestTransformDeltas(t *testing.T) {
	counts := []int{3, 3, 10, 130, 128, 250}
	s := confirmedSeries("Austria", counts...)

	points, err := s.Transform(0)
	require.NoError(t, err)
	require.Len(t, points, len(counts))

	// A correction lowered the count on day 5, the delta passes through
	// negative.
	assert.Equal(t, -2.0, points[4].Value)

	sum := 0.0
	for i, pt := range points {
		sum += pt.Value
		assert.Equal(t, float64(counts[i]), sum, "cumulative count mismatch at day %d", i)
	}
}

// TestTransformSmoothing verifies the forward block average: each output
// averages the window+1 deltas starting at its index, and the last
// window days are dropped.
func TestTransformSmoothing(t *testing.T) {
	// Deltas are 10, 20, 30, 40.
	s := confirmedSeries("France", 10, 30, 60, 100)

	points, err := s.Transform(1)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 15.0, points[0].Value)
	assert.Equal(t, 25.0, points[1].Value)
	assert.Equal(t, 35.0, points[2].Value)
}

// TestTransformLength checks the length law: n-day input and window w
// produce max(n-w, 0) points.
func TestTransformLength(t *testing.T) {
	s := confirmedSeries("Germany", 1, 2, 3, 4, 5)

	for window, want := range map[int]int{0: 5, 1: 4, 4: 1, 5: 0, 100: 0} {
		points, err := s.Transform(window)
		require.NoError(t, err, "window %d", window)
		assert.Len(t, points, want, "window %d", window)
	}
}

// TestTransformNegativeWindow verifies negative windows are rejected.
func TestTransformNegativeWindow(t *testing.T) {
	s := confirmedSeries("Italy", 1, 2, 3)

	_, err := s.Transform(-1)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

// TestTransformEmpty verifies transforming an empty series fails.
func TestTransformEmpty(t *testing.T) {
	_, err := NewSeries("Nowhere").Transform(0)
	assert.ErrorIs(t, err, ErrEmptySeries)
}
