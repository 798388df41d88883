package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Dataset is an immutable in-memory view of one CSV file, loaded once at
// process start and shared read-only by every query. The sandbox never
// touches this copy; it re-reads Path inside the subprocess, so generated
// code cannot mutate shared state.
type Dataset struct {
	Path    string
	name    string
	header  []string
	rows    [][]string
	columns []Column
}

// Column captures the inferred shape of one CSV column.
type Column struct {
	Name    string
	Kind    string // numeric|categorical|text
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	// Categorical values, most frequent first
	TopValues []string
}

// maxCategorical is the distinct-value ceiling below which a non-numeric
// column is reported as categorical rather than free text.
const maxCategorical = 20

// Load reads the CSV at path into a Dataset. The whole file is read; the
// agent's datasets are small, fixed tables (hundreds to low thousands of
// rows), not streaming inputs.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %s", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, fmt.Errorf("csv has no columns: %s", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	ds := &Dataset{
		Path:   path,
		name:   filepath.Base(path),
		header: header,
	}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(ds.rows)+2, err)
		}
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		row := make([]string, ncol)
		copy(row, rec)
		ds.rows = append(ds.rows, row)
	}

	ds.columns = summarize(header, ds.rows)
	return ds, nil
}

type colAcc struct {
	nonNil int
	miss   int
	numCnt int
	sum    float64
	min    float64
	max    float64
	values map[string]int
}

func summarize(header []string, rows [][]string) []Column {
	ncol := len(header)
	accs := make([]*colAcc, ncol)
	for i := range accs {
		accs[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), values: make(map[string]int)}
	}
	for _, rec := range rows {
		for j := 0; j < ncol && j < len(rec); j++ {
			v := strings.TrimSpace(rec[j])
			c := accs[j]
			if v == "" {
				c.miss++
				continue
			}
			c.nonNil++
			c.values[v]++
			if x, err := strconv.ParseFloat(v, 64); err == nil {
				c.numCnt++
				c.sum += x
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
			}
		}
	}

	cols := make([]Column, ncol)
	for j, c := range accs {
		col := Column{
			Name:    header[j],
			NonNull: c.nonNil,
			Missing: c.miss,
			Unique:  len(c.values),
		}
		switch {
		case c.nonNil > 0 && c.numCnt == c.nonNil:
			col.Kind = "numeric"
			col.Min = c.min
			col.Max = c.max
			col.Mean = c.sum / float64(c.numCnt)
		case len(c.values) > 0 && len(c.values) <= maxCategorical:
			col.Kind = "categorical"
			col.TopValues = topValues(c.values, 5)
		default:
			col.Kind = "text"
		}
		cols[j] = col
	}
	return cols
}

func topValues(counts map[string]int, n int) []string {
	type vc struct {
		v string
		c int
	}
	all := make([]vc, 0, len(counts))
	for v, c := range counts {
		all = append(all, vc{v, c})
	}
	sort.Slice(all, func(i, k int) bool {
		if all[i].c != all[k].c {
			return all[i].c > all[k].c
		}
		return all[i].v < all[k].v
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.v
	}
	return out
}

// Name returns the dataset file name (without directory).
func (d *Dataset) Name() string { return d.name }

// Rows returns the number of data rows.
func (d *Dataset) Rows() int { return len(d.rows) }

// Columns returns per-column summaries in header order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Schema renders a deterministic column listing for prompt injection.
// Identical datasets always yield identical schema text.
func (d *Dataset) Schema() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DATAFRAME `df` — %d rows, %d columns:\n", len(d.rows), len(d.columns))
	for _, c := range d.columns {
		switch c.Kind {
		case "numeric":
			fmt.Fprintf(&b, "  %-12s numeric  min=%s max=%s mean=%s", c.Name,
				trimFloat(c.Min), trimFloat(c.Max), trimFloat(c.Mean))
		case "categorical":
			fmt.Fprintf(&b, "  %-12s categorical  values: %s", c.Name, strings.Join(c.TopValues, ", "))
		default:
			fmt.Fprintf(&b, "  %-12s text", c.Name)
		}
		if c.Missing > 0 {
			fmt.Fprintf(&b, "  (%d missing)", c.Missing)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func trimFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
