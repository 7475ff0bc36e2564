// Package tabular loads the tabular survey inputs: thickness tables and
// LAS well-log traces.
package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

// Thickness kinds
const (
	KindTotal     = "h"
	KindEffective = "eff_h"
)

// ThicknessRow is one "X Y Z Well Value" row of a thickness table
type ThicknessRow struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Well   string  `json:"well"`
	Value  float64 `json:"value"`
	Source string  `json:"source,omitempty"`
	Line   int     `json:"line"`
}

// ThicknessTable is the ordered content of one thickness file
type ThicknessTable struct {
	Kind     string
	Rows     []ThicknessRow
	Warnings []models.Warning
}

// LoadThickness reads a thickness table from disk. A missing file yields
// an empty table with a warning.
func LoadThickness(path, kind string) (*ThicknessTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ThicknessTable{
				Kind: kind,
				Warnings: []models.Warning{{
					Source:  path,
					Message: fmt.Sprintf("%s table not found, treated as empty", kind),
				}},
			}, nil
		}
		return nil, fmt.Errorf("failed to open %s table: %w", kind, err)
	}
	defer f.Close()

	return ReadThickness(f, path, kind)
}

// ReadThickness parses a whitespace separated thickness table.
// Text after '#' is a comment. The first data row is skipped as a header
// when it has five columns and its X or value column is not numeric.
func ReadThickness(r io.Reader, source, kind string) (*ThicknessTable, error) {
	table := &ThicknessTable{Kind: kind}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	headerChecked := false

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if !headerChecked {
			headerChecked = true
			if isHeader(fields) {
				continue
			}
		}

		row, err := parseThicknessRow(fields)
		if err != nil {
			table.Warnings = append(table.Warnings, models.Warning{
				Source:  source,
				Line:    lineNo,
				Message: err.Error(),
			})
			continue
		}
		row.Source = source
		row.Line = lineNo
		table.Rows = append(table.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return table, fmt.Errorf("failed to read %s table: %w", kind, err)
	}

	return table, nil
}

// isHeader reports a five-column row whose X or Value column is not
// numeric. Other malformed rows are data and get a warning.
func isHeader(fields []string) bool {
	if len(fields) != 5 {
		return false
	}
	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		return true
	}
	_, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	return err != nil
}

func parseThicknessRow(fields []string) (ThicknessRow, error) {
	if len(fields) != 5 {
		return ThicknessRow{}, fmt.Errorf("expected 5 fields (X Y Z Well Value), got %d", len(fields))
	}

	var nums [4]float64
	for i, idx := range []int{0, 1, 2, 4} {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return ThicknessRow{}, fmt.Errorf("invalid number %q", fields[idx])
		}
		nums[i] = v
	}

	well := strings.Trim(fields[3], `'"`)
	if well == "" {
		return ThicknessRow{}, errors.New("empty well name")
	}

	return ThicknessRow{
		X:     nums[0],
		Y:     nums[1],
		Z:     nums[2],
		Well:  well,
		Value: nums[3],
	}, nil
}
