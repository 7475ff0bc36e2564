// Package thickness joins total and effective thickness tables into Well
// records and derives the collector ratio.
package thickness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/stats"
	"github.com/jengzang/geowell-backend-go/internal/tabular"
)

// DuplicatePolicy decides how repeated well names within one table combine
type DuplicatePolicy string

// Duplicate row policies
const (
	DuplicateLast  DuplicatePolicy = "last"
	DuplicateFirst DuplicatePolicy = "first"
	DuplicateSum   DuplicatePolicy = "sum"
	DuplicateMean  DuplicatePolicy = "mean"
)

// ParseDuplicatePolicy validates a policy name, empty means last
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateLast, nil
	case DuplicateLast, DuplicateFirst, DuplicateSum, DuplicateMean:
		return p, nil
	default:
		return "", fmt.Errorf("unknown thickness duplicate policy %q", s)
	}
}

// Table is the merged, name-indexed well table
type Table struct {
	Wells    []models.Well // Sorted by name
	Warnings []models.Warning
	index    map[string]int
}

// Get returns the well with the given name
func (t *Table) Get(name string) (models.Well, bool) {
	i, ok := t.index[name]
	if !ok {
		return models.Well{}, false
	}
	return t.Wells[i], true
}

// Names returns the well names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.Wells))
	for i, w := range t.Wells {
		names[i] = w.Name
	}
	return names
}

// Len returns the number of wells
func (t *Table) Len() int {
	return len(t.Wells)
}

// grouped is the per-name reduction of one table
type grouped struct {
	row   tabular.ThicknessRow // Row providing the surface location
	value float64
	count int
}

// Merger joins thickness tables by well name
type Merger struct {
	Duplicates DuplicatePolicy
}

// NewMerger creates a merger with the given duplicate policy
func NewMerger(policy DuplicatePolicy) *Merger {
	if policy == "" {
		policy = DuplicateLast
	}
	return &Merger{Duplicates: policy}
}

// Merge performs a name-keyed union of the total (h) and effective
// (eff_h) rows. Every name present in either input yields one Well; a
// missing side leaves that attribute nil. Coordinates are taken from the
// h row when present, else from the eff_h row.
func (m *Merger) Merge(h, effH []tabular.ThicknessRow) *Table {
	table := &Table{index: make(map[string]int)}

	total := m.group(h, tabular.KindTotal, &table.Warnings)
	effective := m.group(effH, tabular.KindEffective, &table.Warnings)

	names := make([]string, 0, len(total)+len(effective))
	for name := range total {
		names = append(names, name)
	}
	for name := range effective {
		if _, ok := total[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		well := models.Well{Name: name}

		t, hasH := total[name]
		e, hasEff := effective[name]
		location := e.row
		if hasH {
			location = t.row
			well.H = models.Float(t.value)
		}
		if hasEff {
			well.EffH = models.Float(e.value)
		}
		well.X, well.Y, well.Z = location.X, location.Y, location.Z
		well.CollectorRatio = CollectorRatio(well.H, well.EffH)

		table.index[name] = len(table.Wells)
		table.Wells = append(table.Wells, well)
	}

	return table
}

// CollectorRatio returns eff_h / h, or nil when either side is missing or
// h is zero
func CollectorRatio(h, effH *float64) *float64 {
	if h == nil || effH == nil || *h == 0 {
		return nil
	}
	return models.Float(*effH / *h)
}

func (m *Merger) group(rows []tabular.ThicknessRow, kind string, warnings *[]models.Warning) map[string]grouped {
	out := make(map[string]grouped, len(rows))
	for _, row := range rows {
		g, ok := out[row.Well]
		if !ok {
			out[row.Well] = grouped{row: row, value: row.Value, count: 1}
			continue
		}

		src := row.Source
		if src == "" {
			src = kind
		}
		*warnings = append(*warnings, models.Warning{
			Source:  src,
			Line:    row.Line,
			Well:    row.Well,
			Message: fmt.Sprintf("duplicate %s row, combined with policy %q", kind, m.Duplicates),
		})

		g.count++
		switch m.Duplicates {
		case DuplicateFirst:
		case DuplicateSum:
			g.value += row.Value
		case DuplicateMean:
			// Running mean keeps the first row's location
			g.value += (row.Value - g.value) / float64(g.count)
		default:
			g.row = row
			g.value = row.Value
		}
		out[row.Well] = g
	}
	return out
}

// RatioStats summarises the defined collector ratios of a set of wells.
// StdDev is the sample standard deviation.
func RatioStats(wells []models.Well) models.RatioStats {
	result := models.RatioStats{Wells: len(wells)}

	var ratios []float64
	for _, w := range wells {
		if w.CollectorRatio != nil {
			ratios = append(ratios, *w.CollectorRatio)
		}
	}
	result.WithRatio = len(ratios)
	result.Mean = stats.Mean(ratios)
	result.StdDev = stats.StdDev(ratios)
	result.Min = stats.Min(ratios)
	result.Max = stats.Max(ratios)

	return result
}
