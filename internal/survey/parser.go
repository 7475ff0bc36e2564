// Package survey parses deviation survey (well trajectory) text files.
//
// A file holds repeated blocks, each introduced by a line such as
//
//	welltrack 'WELL_001'
//
// followed by lines of four numbers "x y z md". Malformed lines are skipped
// individually and reported as warnings; the surrounding block continues.
package survey

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

// DuplicatePolicy decides what happens when a well identifier reappears
type DuplicatePolicy string

// Duplicate well block policies
const (
	DuplicateAppend  DuplicatePolicy = "append"  // Later points extend the earlier sequence
	DuplicateReplace DuplicatePolicy = "replace" // Later block discards the earlier points
	DuplicateReject  DuplicatePolicy = "reject"  // Later block is ignored
)

// ParseDuplicatePolicy validates a policy name, empty means append
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateAppend, nil
	case DuplicateAppend, DuplicateReplace, DuplicateReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown trajectory duplicate policy %q", s)
	}
}

const headerKeyword = "welltrack"

// Result is the outcome of parsing one trajectory stream
type Result struct {
	Wells    map[string][]models.TrajectoryPoint
	Order    []string // Well names in order of first appearance
	Warnings []models.Warning
}

// Points returns the trajectory of a well, nil if absent
func (r *Result) Points(well string) []models.TrajectoryPoint {
	return r.Wells[well]
}

// Parser reads trajectory streams
type Parser struct {
	Duplicates DuplicatePolicy
}

// NewParser creates a parser with the given duplicate policy
func NewParser(policy DuplicatePolicy) *Parser {
	if policy == "" {
		policy = DuplicateAppend
	}
	return &Parser{Duplicates: policy}
}

// ParseFile parses a trajectory file. A missing file yields an empty
// result with a warning rather than an error.
func (p *Parser) ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res := newResult()
			res.Warnings = append(res.Warnings, models.Warning{
				Source:  path,
				Message: "trajectory file not found, treated as empty",
			})
			return res, nil
		}
		return nil, fmt.Errorf("failed to open trajectory file: %w", err)
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse reads a trajectory stream. source is only used to label warnings.
func (p *Parser) Parse(r io.Reader, source string) (*Result, error) {
	res := newResult()
	seen := make(map[string]bool)

	var (
		current  string // Well receiving points, empty when none
		ignoring bool   // Current block rejected by policy
		lineNo   int
	)

	warn := func(well, format string, args ...interface{}) {
		res.Warnings = append(res.Warnings, models.Warning{
			Source:  source,
			Line:    lineNo,
			Well:    well,
			Message: fmt.Sprintf(format, args...),
		})
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)

		if line == "" || line == "/" || strings.HasPrefix(line, "--") {
			continue
		}

		if strings.Contains(strings.ToLower(line), headerKeyword) {
			name, ok := quotedName(line)
			if !ok {
				warn("", "well header without a quoted name: %q", line)
				current, ignoring = "", false
				continue
			}

			current, ignoring = name, false
			if !seen[name] {
				seen[name] = true
				res.Order = append(res.Order, name)
				continue
			}

			switch p.Duplicates {
			case DuplicateReplace:
				warn(name, "duplicate well block, earlier %d points replaced", len(res.Wells[name]))
				delete(res.Wells, name)
			case DuplicateReject:
				warn(name, "duplicate well block ignored")
				ignoring = true
			default:
				warn(name, "duplicate well block, points appended to %d existing", len(res.Wells[name]))
			}
			continue
		}

		if strings.Contains(line, ";") {
			continue
		}
		if current == "" {
			warn("", "data line outside of a well block")
			continue
		}
		if ignoring {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			warn(current, "expected 4 fields (x y z md), got %d", len(fields))
			continue
		}

		var values [4]float64
		valid := true
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				warn(current, "invalid number %q", field)
				valid = false
				break
			}
			values[i] = v
		}
		if !valid {
			continue
		}

		points := res.Wells[current]
		res.Wells[current] = append(points, models.TrajectoryPoint{
			Well:  current,
			Index: len(points),
			X:     values[0],
			Y:     values[1],
			Z:     values[2],
			MD:    values[3],
		})
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read trajectory stream: %w", err)
	}

	// Headers without any valid point do not produce a well
	order := res.Order[:0]
	for _, name := range res.Order {
		if len(res.Wells[name]) > 0 {
			order = append(order, name)
			continue
		}
		lineNo = 0
		warn(name, "well block has no valid points")
	}
	res.Order = order

	return res, nil
}

func newResult() *Result {
	return &Result{Wells: make(map[string][]models.TrajectoryPoint)}
}

// quotedName extracts the identifier between the first pair of single
// or double quotes
func quotedName(line string) (string, bool) {
	for _, q := range []string{"'", `"`} {
		start := strings.Index(line, q)
		if start < 0 {
			continue
		}
		end := strings.Index(line[start+1:], q)
		if end < 0 {
			continue
		}
		name := strings.TrimSpace(line[start+1 : start+1+end])
		if name != "" {
			return name, true
		}
	}
	return "", false
}
