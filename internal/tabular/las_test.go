package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

const sampleLAS = `~Version information
 VERS.   2.0 : CWLS LOG ASCII STANDARD - VERSION 2.0
 WRAP.   NO  : One line per depth step
~Well information
 STRT.M        1000.0 : START DEPTH
 STOP.M        1002.0 : STOP DEPTH
 NULL.         -999.25 : NULL VALUE
 WELL.         WELL_001 : WELL
~Curve information
 DEPT.M                  : Measured depth
 GR  .API                : Gamma ray
 КриваяГИС1.             : Collector flag
~Parameter
 BHT .DEGC   35.5 : Bottom hole temperature
~A  DEPT  GR  FLAG
1000.0  55.1  1
1000.5  60.2  -999.25
1001.0  61.0  0
1001.5  oops  0
1002.0  58.0
`

func TestParseLAS(t *testing.T) {
	file, err := ParseLAS([]byte(sampleLAS), "w.las")
	require.NoError(t, err)

	assert.Equal(t, "WELL_001", file.WellName())
	null, ok := file.NullValue()
	require.True(t, ok)
	assert.Equal(t, -999.25, null)
	assert.False(t, file.Wrapped())

	require.Len(t, file.Curves, 3)
	assert.Equal(t, HeaderItem{Mnemonic: "DEPT", Unit: "M", Description: "Measured depth"}, file.Curves[0])
	assert.Equal(t, "GR", file.Curves[1].Mnemonic)
	assert.Equal(t, "API", file.Curves[1].Unit)
	assert.Equal(t, "35.5", file.Params["BHT"].Value)

	require.Len(t, file.Rows, 3)
	assert.Equal(t, []float64{1000.5, 60.2, -999.25}, file.Rows[1])
	assert.Len(t, file.Warnings, 2)
}

func TestParseLAS_Wrapped(t *testing.T) {
	input := `~V
 WRAP. YES : multiple lines per depth step
~C
 DEPT.M :
 A.    :
 B.    :
~A
10.0
 1 2
11.0 3
 4
`
	file, err := ParseLAS([]byte(input), "wrapped.las")
	require.NoError(t, err)
	require.True(t, file.Wrapped())
	assert.Equal(t, [][]float64{{10, 1, 2}, {11, 3, 4}}, file.Rows)
}

func TestParseLAS_NoCurves(t *testing.T) {
	_, err := ParseLAS([]byte("~V\n VERS. 2.0 :\n~A\n1 2\n"), "x.las")
	assert.ErrorIs(t, err, ErrNoCurves)
}

func TestCurveResolver(t *testing.T) {
	curves := func(names ...string) []HeaderItem {
		items := make([]HeaderItem, len(names))
		for i, n := range names {
			items[i] = HeaderItem{Mnemonic: n}
		}
		return items
	}

	tests := []struct {
		name   string
		curves []HeaderItem
		index  int
		value  int
		err    error
	}{
		{"preferred name", curves("DEPT", "GR", "КриваяГИС1"), 0, 2, nil},
		{"case-insensitive index", curves("GR", "depth", "FLAG"), 1, 0, nil},
		{"positional fallback", curves("DEPT", "GR", "SP"), 0, 1, nil},
		{"first curve as index", curves("X", "Y"), 0, 1, nil},
		{"only index", curves("DEPT"), 0, 0, ErrNoValueCurve},
		{"no curves", nil, 0, 0, ErrNoCurves},
	}

	resolver := DefaultCurveResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, value, err := resolver.Resolve(tt.curves)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestLogLoader_Read(t *testing.T) {
	series, warnings, err := NewLogLoader(DefaultCurveResolver()).Read([]byte(sampleLAS), "w.las")
	require.NoError(t, err)

	assert.Equal(t, "WELL_001", series.Well)
	assert.Equal(t, "КриваяГИС1", series.Curve)
	assert.Equal(t, "DEPT", series.IndexCurve)
	assert.Equal(t, -999.25, series.NullValue)
	assert.Equal(t, []models.LogSample{
		{Depth: 1000.0, Value: 1},
		{Depth: 1000.5, Value: -999.25},
		{Depth: 1001.0, Value: 0},
	}, series.Samples)
	assert.Len(t, warnings, 2)
}

func TestLogLoader_Windows1251(t *testing.T) {
	text := "~W\n NULL. -9999 :\n~C\n DEPT.M :\n КриваяГИС1. :\n~A\n1 1\n2 -9999\n"
	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)

	series, _, err := NewLogLoader(DefaultCurveResolver()).Read([]byte(encoded), "/data/СКВ-7.LAS")
	require.NoError(t, err)

	assert.Equal(t, "СКВ-7", series.Well)
	assert.Equal(t, "КриваяГИС1", series.Curve)
	assert.Equal(t, -9999.0, series.NullValue)
	assert.Len(t, series.Samples, 2)
}

func TestLogLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("a.las", sampleLAS)
	write("b.txt", "~C\n DEPT.M :\n V. :\n~A\n5 1\n")
	write("c.las", "~C\n DEPT.M :\n~A\n5\n")
	write("notes.md", "ignored")
	write("z.las", "~W\n WELL. WELL_001 :\n~C\n DEPT.M :\n V. :\n~A\n7 0\n")

	set, err := NewLogLoader(DefaultCurveResolver()).LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"WELL_001", "b"}, set.Order)
	assert.Equal(t, []models.LogSample{{Depth: 7, Value: 0}}, set.Series["WELL_001"].Samples)
	assert.Equal(t, "V", set.Series["b"].Curve)

	var skipped, duplicate bool
	for _, w := range set.Warnings {
		if w.Source == filepath.Join(dir, "c.las") {
			skipped = true
		}
		if w.Well == "WELL_001" && w.Source == filepath.Join(dir, "z.las") {
			duplicate = true
		}
	}
	assert.True(t, skipped)
	assert.True(t, duplicate)
}

func TestLogLoader_LoadDirMissing(t *testing.T) {
	set, err := NewLogLoader(DefaultCurveResolver()).LoadDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, set.Series)
	assert.Len(t, set.Warnings, 1)
}
