package tabular

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

// Errors returned while reading LAS files
var (
	ErrNoCurves     = errors.New("las: no curves defined")
	ErrNoValueCurve = errors.New("las: no value curve besides the depth index")
	ErrNoWellName   = errors.New("las: well name missing")
)

// HeaderItem is one "MNEM.UNIT VALUE : DESCRIPTION" line
type HeaderItem struct {
	Mnemonic    string
	Unit        string
	Value       string
	Description string
}

// LASFile is the parsed content of a LAS 2.0 file
type LASFile struct {
	Version  map[string]HeaderItem
	Well     map[string]HeaderItem
	Params   map[string]HeaderItem
	Curves   []HeaderItem
	Rows     [][]float64
	Warnings []models.Warning
}

// WellName returns the WELL header value
func (f *LASFile) WellName() string {
	return strings.TrimSpace(f.Well["WELL"].Value)
}

// NullValue returns the NULL header value, ok is false when absent or invalid
func (f *LASFile) NullValue() (float64, bool) {
	item, ok := f.Well["NULL"]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(item.Value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Wrapped reports whether data records may span several lines
func (f *LASFile) Wrapped() bool {
	return strings.EqualFold(strings.TrimSpace(f.Version["WRAP"].Value), "YES")
}

// ParseLAS parses a LAS document. Invalid UTF-8 input is decoded as
// Windows-1251, the usual encoding of Cyrillic exports.
func ParseLAS(data []byte, source string) (*LASFile, error) {
	data = decodeText(data)

	file := &LASFile{
		Version: make(map[string]HeaderItem),
		Well:    make(map[string]HeaderItem),
		Params:  make(map[string]HeaderItem),
	}

	var (
		section byte
		pending []float64 // Tokens of a wrapped record
		lineNo  int
	)

	warn := func(format string, args ...interface{}) {
		file.Warnings = append(file.Warnings, models.Warning{
			Source:  source,
			Line:    lineNo,
			Message: fmt.Sprintf(format, args...),
		})
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line[0] == '~' {
			if len(line) > 1 {
				section = upper(line[1])
			} else {
				section = 0
			}
			if section == 'A' && len(file.Curves) == 0 {
				return nil, ErrNoCurves
			}
			continue
		}

		switch section {
		case 'V', 'W', 'C', 'P':
			item, ok := parseHeaderLine(line)
			if !ok {
				warn("malformed header line %q", line)
				continue
			}
			key := strings.ToUpper(item.Mnemonic)
			switch section {
			case 'V':
				file.Version[key] = item
			case 'W':
				file.Well[key] = item
			case 'C':
				file.Curves = append(file.Curves, item)
			case 'P':
				file.Params[key] = item
			}

		case 'A':
			values, err := parseNumbers(strings.Fields(line))
			if err != nil {
				warn("%v", err)
				pending = pending[:0]
				continue
			}

			n := len(file.Curves)
			if !file.Wrapped() {
				if len(values) != n {
					warn("expected %d values, got %d", n, len(values))
					continue
				}
				file.Rows = append(file.Rows, values)
				continue
			}

			pending = append(pending, values...)
			for len(pending) >= n {
				row := make([]float64, n)
				copy(row, pending[:n])
				file.Rows = append(file.Rows, row)
				pending = pending[n:]
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read las data: %w", err)
	}
	if len(pending) > 0 {
		warn("incomplete wrapped record of %d values dropped", len(pending))
	}
	if len(file.Curves) == 0 {
		return nil, ErrNoCurves
	}

	return file, nil
}

// parseHeaderLine splits "MNEM.UNIT VALUE : DESCRIPTION". The unit starts
// right after the first dot and the description after the last colon.
func parseHeaderLine(line string) (HeaderItem, bool) {
	dot := strings.IndexByte(line, '.')
	if dot < 0 {
		return HeaderItem{}, false
	}
	item := HeaderItem{Mnemonic: strings.TrimSpace(line[:dot])}
	if item.Mnemonic == "" {
		return HeaderItem{}, false
	}

	rest := line[dot+1:]
	if end := strings.IndexAny(rest, " \t"); end >= 0 {
		item.Unit = rest[:end]
		rest = rest[end:]
	} else {
		item.Unit = rest
		rest = ""
	}
	if colon := strings.LastIndexByte(rest, ':'); colon >= 0 {
		item.Description = strings.TrimSpace(rest[colon+1:])
		rest = rest[:colon]
	}
	item.Value = strings.TrimSpace(rest)

	return item, true
}

func parseNumbers(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		values[i] = v
	}
	return values, nil
}

func decodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// CurveResolver picks the depth index and value curves of a LAS file.
// Resolution order: the first curve matching IndexNames (else the first
// curve) is the index; the first curve matching Preferred (else the first
// non-index curve) is the value curve.
type CurveResolver struct {
	IndexNames []string
	Preferred  []string
}

// DefaultCurveResolver matches the usual depth mnemonics and the
// classified curve name used by the source exports
func DefaultCurveResolver() CurveResolver {
	return CurveResolver{
		IndexNames: []string{"DEPT", "DEPTH", "MD"},
		Preferred:  []string{"КриваяГИС1"},
	}
}

// Resolve returns the positions of the index and value curves
func (r CurveResolver) Resolve(curves []HeaderItem) (index, value int, err error) {
	if len(curves) == 0 {
		return 0, 0, ErrNoCurves
	}

	index = findCurve(curves, r.IndexNames, -1)
	if index < 0 {
		index = 0
	}

	value = findCurve(curves, r.Preferred, index)
	if value < 0 {
		for i := range curves {
			if i != index {
				value = i
				break
			}
		}
	}
	if value < 0 {
		return 0, 0, ErrNoValueCurve
	}

	return index, value, nil
}

func findCurve(curves []HeaderItem, names []string, skip int) int {
	for _, name := range names {
		for i, c := range curves {
			if i != skip && strings.EqualFold(c.Mnemonic, name) {
				return i
			}
		}
	}
	return -1
}

// LogLoader turns LAS files into log series
type LogLoader struct {
	Resolver  CurveResolver
	NullValue float64 // Used when the file declares no NULL
}

// NewLogLoader creates a loader with the given resolver
func NewLogLoader(resolver CurveResolver) *LogLoader {
	return &LogLoader{Resolver: resolver, NullValue: models.DefaultNullValue}
}

// LoadFile reads one LAS file
func (l *LogLoader) LoadFile(path string) (*models.LogSeries, []models.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read las file: %w", err)
	}
	return l.Read(data, path)
}

// Read converts LAS content into a raw log series. Sentinel values are
// kept, see Clean.
func (l *LogLoader) Read(data []byte, source string) (*models.LogSeries, []models.Warning, error) {
	file, err := ParseLAS(data, source)
	if err != nil {
		return nil, nil, err
	}
	warnings := file.Warnings

	index, value, err := l.Resolver.Resolve(file.Curves)
	if err != nil {
		return nil, warnings, err
	}

	well := file.WellName()
	if well == "" {
		well = wellNameFromPath(source)
	}
	if well == "" {
		return nil, warnings, ErrNoWellName
	}

	null, ok := file.NullValue()
	if !ok {
		null = l.NullValue
	}
	null = models.NullOrDefault(null)

	series := &models.LogSeries{
		Well:       well,
		Curve:      file.Curves[value].Mnemonic,
		IndexCurve: file.Curves[index].Mnemonic,
		NullValue:  null,
		Source:     source,
		Samples:    make([]models.LogSample, 0, len(file.Rows)),
	}
	for i, row := range file.Rows {
		depth := row[index]
		if depth == null || math.IsNaN(depth) {
			warnings = append(warnings, models.Warning{
				Source:  source,
				Well:    well,
				Message: fmt.Sprintf("data record %d has no depth", i+1),
			})
			continue
		}
		series.Samples = append(series.Samples, models.LogSample{Depth: depth, Value: row[value]})
	}

	return series, warnings, nil
}

func wellNameFromPath(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	ext := filepath.Ext(base)
	switch strings.ToLower(ext) {
	case ".las", ".txt":
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// LogSet is the result of loading a directory of LAS files
type LogSet struct {
	Series   map[string]models.LogSeries
	Order    []string // Well names sorted
	Warnings []models.Warning
}

// LoadDir reads every *.las and *.txt file of dir. A missing directory
// yields an empty set with a warning; a file that cannot be read only
// costs that file. When two files name the same well the later file
// (in name order) wins.
func (l *LogLoader) LoadDir(dir string) (*LogSet, error) {
	set := &LogSet{Series: make(map[string]models.LogSeries)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			set.Warnings = append(set.Warnings, models.Warning{
				Source:  dir,
				Message: "log directory not found, treated as empty",
			})
			return set, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".las", ".txt":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		series, warnings, err := l.LoadFile(path)
		set.Warnings = append(set.Warnings, warnings...)
		if err != nil {
			set.Warnings = append(set.Warnings, models.Warning{
				Source:  path,
				Message: fmt.Sprintf("las file skipped: %v", err),
			})
			continue
		}

		if prev, ok := set.Series[series.Well]; ok {
			set.Warnings = append(set.Warnings, models.Warning{
				Source:  path,
				Well:    series.Well,
				Message: fmt.Sprintf("duplicate well, replaces %s", prev.Source),
			})
		}
		set.Series[series.Well] = *series
	}

	for name := range set.Series {
		set.Order = append(set.Order, name)
	}
	sort.Strings(set.Order)

	return set, nil
}
