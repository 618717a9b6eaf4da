package series

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// epochThreshold is the cumulative confirmed count a region must exceed
// to reach day zero of its aligned curve. Charting "days since 100th
// case" puts every region on a shared x axis regardless of when its
// outbreak started.
const epochThreshold = 100

// Series stores merged daily records for one country or region.
// At most one record is kept per day - a second record for the same day
// is summed into the stored one, never overwritten.
type Series struct {
	// Region is the canonical region name.
	Region string

	days map[time.Time]Record
}

// NewSeries returns an empty series for the given canonical region name.
func NewSeries(region string) *Series {
	return &Series{
		Region: region,
		days:   make(map[time.Time]Record),
	}
}

// String returns a string representation of this series
func (s *Series) String() string {
	return fmt.Sprintf("%s (%d)", s.Region, len(s.days))
}

// Len returns the number of days recorded.
func (s *Series) Len() int {
	return len(s.days)
}

// AddDay merges the record into the data for the given day.
// The day is truncated to a calendar date in UTC.
func (s *Series) AddDay(day time.Time, rec Record) {
	day = day.UTC().Truncate(24 * time.Hour)
	if stored, ok := s.days[day]; ok {
		stored.Add(rec)
		s.days[day] = stored
		return
	}
	s.days[day] = rec
}

// Days returns the recorded days in chronological order. The sort runs
// on every call rather than being cached, so a series stays free of
// mutation once ingestion is done and reads need no synchronization.
// Per-region day counts are a few hundred at most.
func (s *Series) Days() []time.Time {
	days := make([]time.Time, 0, len(s.days))
	for day := range s.days {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}

// Record returns the stored record for a day, merged from however many
// rows were reported for it. The zero record is returned for days not
// in the series.
func (s *Series) Record(day time.Time) Record {
	return s.days[day.UTC().Truncate(24*time.Hour)]
}

// Latest returns the record for the most recent day in the series.
func (s *Series) Latest() (Record, error) {
	days := s.Days()
	if len(days) == 0 {
		return Record{}, fmt.Errorf("series: latest for %q: %w", s.Region, ErrEmptySeries)
	}
	return s.days[days[len(days)-1]], nil
}

// TotalConfirmed returns the latest cumulative confirmed count,
// or zero for an empty series. Used for ranking and display filtering.
func (s *Series) TotalConfirmed() int {
	rec, err := s.Latest()
	if err != nil {
		return 0
	}
	return rec.Confirmed
}

// Point is one plottable sample of the aligned, smoothed incidence curve.
// Offset is the day index relative to the region's epoch, the first day
// its cumulative confirmed count exceeded epochThreshold. Value is the
// smoothed number of new confirmed cases on that day.
type Point struct {
	Offset int
	Value  float64
}

// Transform derives the plot-ready daily incidence curve for this region:
// cumulative confirmed counts become day-over-day deltas, days are
// re-indexed relative to the epoch, and each output sample averages the
// window+1 deltas starting at its index. The last window days are
// dropped as they lack enough lookahead, so the result has
// max(n-window, 0) points for an n-day series.
//
// Deltas are not clamped: an upstream data correction that lowers a
// cumulative count passes through as a negative value.
func (s *Series) Transform(window int) ([]Point, error) {
	if window < 0 {
		return nil, fmt.Errorf("series: transform for %q window:%d: %w", s.Region, window, ErrInvalidWindow)
	}

	days := s.Days()
	n := len(days)
	if n == 0 {
		return nil, fmt.Errorf("series: transform for %q: %w", s.Region, ErrEmptySeries)
	}

	// The epoch is n when the threshold is never crossed, which leaves
	// every offset negative.
	epoch := n
	for i, day := range days {
		if s.days[day].Confirmed > epochThreshold {
			epoch = i
			break
		}
	}

	// Day-over-day deltas, with an implicit zero before the first day so
	// the first delta equals the first cumulative count.
	deltas := make([]float64, n)
	last := 0
	for i, day := range days {
		confirmed := s.days[day].Confirmed
		deltas[i] = float64(confirmed - last)
		last = confirmed
	}

	points := make([]Point, 0)
	for i := 0; i+window < n; i++ {
		points = append(points, Point{
			Offset: i - epoch,
			Value:  stat.Mean(deltas[i:i+window+1], nil),
		})
	}
	return points, nil
}
