// Package averages provides the optional table of mean historical usage per
// building type and hour. The table is either read from a precomputed CSV or
// computed from the raw dataset; when neither is available the feature is
// simply absent.
package averages

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
)

// Config locates the averages sources.
type Config struct {
	// PrecomputedPath is a CSV with columns building_type,hour,avg_kwh.
	PrecomputedPath string `json:"precomputed_path"`
	// DatasetPath is a CSV with at least building_type,hour,energy_usage.
	DatasetPath string `json:"dataset_path"`
}

// SetDefaults applies the conventional file locations.
func (c *Config) SetDefaults() {
	if c.PrecomputedPath == "" {
		c.PrecomputedPath = "avg_hour_building.csv"
	}
	if c.DatasetPath == "" {
		c.DatasetPath = "data/campus_energy_dataset.csv"
	}
}

// Source identifies where a table came from.
type Source string

const (
	SourcePrecomputed Source = "precomputed"
	SourceDataset     Source = "dataset"
)

// Table is an immutable set of hourly averages.
type Table struct {
	source  Source
	rows    map[model.BuildingType][]model.HourlyAverage
	skipped int
}

// Source reports where the table was loaded from.
func (t *Table) Source() Source { return t.source }

// Skipped reports how many source rows named an unsupported building type.
func (t *Table) Skipped() int { return t.skipped }

// BuildingTypes returns the building types present in the table, sorted.
func (t *Table) BuildingTypes() []model.BuildingType {
	out := make([]model.BuildingType, 0, len(t.rows))
	for bt := range t.rows {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForBuilding returns the rows for bt sorted by hour. The second result is
// false when bt has no rows.
func (t *Table) ForBuilding(bt model.BuildingType) ([]model.HourlyAverage, bool) {
	rows, ok := t.rows[bt]
	if !ok {
		return nil, false
	}
	out := make([]model.HourlyAverage, len(rows))
	copy(out, rows)
	return out, true
}

// Load resolves the table: the precomputed CSV first, then the dataset. It
// returns nil when neither source is usable; that is not an error.
func Load(cfg Config, log logger.Logger) *Table {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	if t, err := loadFile(cfg.PrecomputedPath, ReadPrecomputed); err == nil {
		log.Infof("using precomputed averages from %s", cfg.PrecomputedPath)
		warnSkipped(log, cfg.PrecomputedPath, t)
		return t
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("precomputed averages %s unusable: %v", cfg.PrecomputedPath, err)
	}
	if t, err := loadFile(cfg.DatasetPath, ReadDataset); err == nil {
		log.Infof("computed averages from dataset %s", cfg.DatasetPath)
		warnSkipped(log, cfg.DatasetPath, t)
		return t
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("dataset %s unusable: %v", cfg.DatasetPath, err)
	}
	log.Infof("no averages source found; averages disabled")
	return nil
}

func warnSkipped(log logger.Logger, path string, t *Table) {
	if t.skipped > 0 {
		log.Warnf("skipped %d rows with unsupported building types in %s", t.skipped, path)
	}
}

func loadFile(path string, read func(io.Reader) (*Table, error)) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return read(f)
}

// ReadPrecomputed parses a building_type,hour,avg_kwh CSV.
func ReadPrecomputed(r io.Reader) (*Table, error) {
	rows, skipped, err := readRows(r, "building_type", "hour", "avg_kwh")
	if err != nil {
		return nil, err
	}
	t := &Table{source: SourcePrecomputed, rows: map[model.BuildingType][]model.HourlyAverage{}, skipped: skipped}
	for _, row := range rows {
		t.rows[row.bt] = append(t.rows[row.bt], model.HourlyAverage{BuildingType: row.bt, Hour: row.hour, AvgKWh: row.value})
	}
	t.sort()
	return t, nil
}

// ReadDataset parses the raw dataset and averages energy_usage per
// (building_type, hour).
func ReadDataset(r io.Reader) (*Table, error) {
	rows, skipped, err := readRows(r, "building_type", "hour", "energy_usage")
	if err != nil {
		return nil, err
	}
	type key struct {
		bt   model.BuildingType
		hour int
	}
	groups := map[key][]float64{}
	for _, row := range rows {
		k := key{row.bt, row.hour}
		groups[k] = append(groups[k], row.value)
	}
	t := &Table{source: SourceDataset, rows: map[model.BuildingType][]model.HourlyAverage{}, skipped: skipped}
	for k, vals := range groups {
		t.rows[k.bt] = append(t.rows[k.bt], model.HourlyAverage{BuildingType: k.bt, Hour: k.hour, AvgKWh: stat.Mean(vals, nil)})
	}
	t.sort()
	return t, nil
}

func (t *Table) sort() {
	for _, rows := range t.rows {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Hour < rows[j].Hour })
	}
}

type csvRow struct {
	bt    model.BuildingType
	hour  int
	value float64
}

// readRows locates the named columns by header and parses every record.
// Rows with a building type outside the supported set are skipped and counted.
func readRows(r io.Reader, btCol, hourCol, valueCol string) ([]csvRow, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	cols := make([]int, 3)
	for i, name := range []string{btCol, hourCol, valueCol} {
		c, ok := idx[name]
		if !ok {
			return nil, 0, fmt.Errorf("missing column %s", name)
		}
		cols[i] = c
	}
	var out []csvRow
	skipped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		bt, err := model.ParseBuildingType(rec[cols[0]])
		if err != nil {
			skipped++
			continue
		}
		hour, err := strconv.Atoi(strings.TrimSpace(rec[cols[1]]))
		if err != nil || hour < 0 || hour > 23 {
			return nil, 0, fmt.Errorf("line %d: invalid hour %q", line, rec[cols[1]])
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[2]]), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: invalid %s %q", line, valueCol, rec[cols[2]])
		}
		out = append(out, csvRow{bt: bt, hour: hour, value: v})
	}
	return out, skipped, nil
}
