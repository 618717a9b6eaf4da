package series

import "fmt"

// Record holds the counts reported for one region on one day
// Totals are cumulative confirmed etc, not single day counts
type Record struct {
	Confirmed int
	Deaths    int
	Recovered int
}

// Add combines the counts from the given record into this one with
// field-wise addition. Daily report files may carry several rows for
// the same region (one per sub-division), which must sum to one
// cumulative figure per day.
func (r *Record) Add(rec Record) {
	r.Confirmed += rec.Confirmed
	r.Deaths += rec.Deaths
	r.Recovered += rec.Recovered
}

// Merge returns the field-wise sum of two records.
func Merge(a, b Record) Record {
	a.Add(b)
	return a
}

// IsZero returns true if this record has all zero counts
func (r Record) IsZero() bool {
	return r.Confirmed+r.Deaths+r.Recovered == 0
}

// String returns a string representation of this Record
func (r Record) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Confirmed, r.Deaths, r.Recovered)
}
