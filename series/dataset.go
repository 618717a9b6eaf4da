package series

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// defaultAliases maps historical spellings of region names to one
// canonical form, so that renamed or restyled source rows accumulate
// into the same series.
var defaultAliases = map[string]string{
	"Bahamas, The":               "Bahamas",
	"Czechia":                    "Czech Republic",
	"Russian Federation":         "Russia",
	"Iran (Islamic Republic of)": "Iran",
	"Mainland China":             "China",
	"Republic of Korea":          "South Korea",
	"Republic of Moldova":        "Moldova",
	"Korea, South":               "South Korea",
	"Taiwan*":                    "Taiwan",
	"UK":                         "United Kingdom",
	"US":                         "United States",
}

// seedBackfill holds fixed data points for the earliest days of the
// outbreak in China, which predate the first published daily report
// (2020-01-22). They are merged in after ingestion like any other rows.
var seedBackfill = []Row{
	{Region: "China", Day: time.Date(2020, 1, 17, 0, 0, 0, 0, time.UTC), Record: Record{Confirmed: 17}},
	{Region: "China", Day: time.Date(2020, 1, 18, 0, 0, 0, 0, time.UTC), Record: Record{Confirmed: 59}},
	{Region: "China", Day: time.Date(2020, 1, 19, 0, 0, 0, 0, time.UTC), Record: Record{Confirmed: 77}},
	{Region: "China", Day: time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC), Record: Record{Confirmed: 77}},
	{Region: "China", Day: time.Date(2020, 1, 21, 0, 0, 0, 0, time.UTC), Record: Record{Confirmed: 149}},
}

// Row is one decoded observation handed in by the ingestion layer:
// a raw region name, the day the report applies to and the counts for
// that day. Count parsing and validation happen before this point.
type Row struct {
	Region string
	Day    time.Time
	Record Record
}

// Dataset holds one series per canonical region name. It is built once
// from a batch of rows, then read-only - queries after ingestion are
// safe without synchronization.
type Dataset struct {
	aliases map[string]string
	series  map[string]*Series
}

// NewDataset returns an empty dataset. The default alias table is
// extended with the extra pairs given, which win on conflict. The
// combined table is fixed for the life of the dataset.
func NewDataset(extraAliases map[string]string) *Dataset {
	aliases := make(map[string]string, len(defaultAliases)+len(extraAliases))
	for raw, canonical := range defaultAliases {
		aliases[raw] = canonical
	}
	for raw, canonical := range extraAliases {
		aliases[raw] = canonical
	}
	return &Dataset{
		aliases: aliases,
		series:  make(map[string]*Series),
	}
}

// Canonicalize maps a raw region name to its canonical form. Names not
// in the alias table pass through unchanged after trimming surrounding
// whitespace. Canonical names map to themselves, so applying this twice
// is the same as applying it once.
func (d *Dataset) Canonicalize(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := d.aliases[name]; ok {
		return canonical
	}
	return name
}

// Add merges one observation into the series for the region, creating
// the series on first sighting of the name. A blank region name is
// rejected rather than fabricating an entry.
func (d *Dataset) Add(region string, day time.Time, rec Record) error {
	name := d.Canonicalize(region)
	if name == "" {
		return fmt.Errorf("series: add for day:%s: %w", day.Format("2006-01-02"), ErrMissingRegion)
	}

	s, ok := d.series[name]
	if !ok {
		s = NewSeries(name)
		d.series[name] = s
	}
	s.AddDay(day, rec)
	return nil
}

// Ingest routes a batch of decoded rows into per-region series, merging
// rows that fall on the same region and day. The ingestion layer is
// expected to have dropped rows without a region name already, so a
// blank name here fails the batch.
func (d *Dataset) Ingest(rows []Row) error {
	for _, row := range rows {
		if err := d.Add(row.Region, row.Day, row.Record); err != nil {
			return err
		}
	}
	return nil
}

// ApplySeedBackfill merges the hardcoded early outbreak points into the
// dataset. Called once after ingestion, while the dataset is still in
// its single-writer construction phase.
func (d *Dataset) ApplySeedBackfill() error {
	return d.Ingest(seedBackfill)
}

// Fetch returns the series stored under the canonical form of name.
func (d *Dataset) Fetch(name string) (*Series, error) {
	s, ok := d.series[d.Canonicalize(name)]
	if !ok {
		return nil, fmt.Errorf("series: fetch %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// Len returns the number of regions in the dataset.
func (d *Dataset) Len() int {
	return len(d.series)
}

// Ranked returns all series sorted for display.
func (d *Dataset) Ranked() Collection {
	ranked := make(Collection, 0, len(d.series))
	for _, s := range d.series {
		ranked = append(ranked, s)
	}
	sort.Sort(ranked)
	return ranked
}

// Collection is an ordered set of region series.
type Collection []*Series

func (c Collection) Len() int      { return len(c) }
func (c Collection) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Sort first on latest confirmed cases, then on alpha order.
// The name tie-break keeps the ranking deterministic regardless of
// map iteration order.
func (c Collection) Less(i, j int) bool {
	if c[i].TotalConfirmed() != c[j].TotalConfirmed() {
		return c[i].TotalConfirmed() > c[j].TotalConfirmed()
	}
	return c[i].Region < c[j].Region
}
