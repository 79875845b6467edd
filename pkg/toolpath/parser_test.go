package toolpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	path, err := ParseString(`
(header comment)
G90 G17
G0 X0 Y0 Z5
G1 Z-1 F100 ; plunge
X10
g2 x0 y10 i-10 j0
`)
	require.NoError(t, err)

	names := make([]string, len(path))
	for i, cmd := range path {
		names[i] = cmd.Name
	}
	assert.Equal(t, []string{"G90", "G17", "G0", "G1", "G1", "G2"}, names)

	assert.Empty(t, path[0].Params)
	assert.Equal(t, map[rune]float64{'X': 0, 'Y': 0, 'Z': 5}, path[2].Params)
	assert.Equal(t, map[rune]float64{'Z': -1, 'F': 100}, path[3].Params)
	assert.Equal(t, map[rune]float64{'X': 10}, path[4].Params)
	assert.Equal(t, KindArcCW, path[5].Kind())
	assert.Equal(t, -10.0, path[5].Value('I', 0))
}

func TestParseCompactWords(t *testing.T) {
	path, err := ParseString("N10G81X10Y10Z-5R2Q1.5\nG38.2Z-10")
	require.NoError(t, err)
	require.Len(t, path, 2)

	assert.Equal(t, "G81", path[0].Name)
	assert.Equal(t, KindDrill, path[0].Kind())
	assert.Equal(t, 1.5, path[0].Value('Q', 0))
	assert.False(t, path[0].Has('N'))
	assert.Equal(t, KindProbe, path[1].Kind())
}

func TestParseModalContinuation(t *testing.T) {
	path, err := ParseString("G81 X1 Y1 Z-2 R1\nX2\nG80\nX3")
	require.NoError(t, err)
	require.Len(t, path, 4)

	assert.Equal(t, "G81", path[1].Name)
	assert.Equal(t, "G80", path[2].Name)
	assert.Equal(t, "", path[3].Name)
	assert.Equal(t, KindUnknown, path[3].Kind())
}

func TestParseWordsWithoutPositionDoNotRepeatMotion(t *testing.T) {
	path, err := ParseString("G81 X1 Y1 Z-1 R1\nF100\nG1 X1\nS1000\nT1 M6\nI2 J0")
	require.NoError(t, err)

	names := make([]string, len(path))
	for i, c := range path {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"G81", "G1", "M6", "G1"}, names)
	assert.Equal(t, 1.0, path[2].Value('T', 0))
	assert.Equal(t, 2.0, path[3].Value('I', 0))
}

func TestParseBlockDeleteAndMarkers(t *testing.T) {
	path, err := ParseString("%\n/G0 X100\nG0 X1\n%")
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, 1.0, path[0].Value('X', 0))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"missing value", "G1 X", 1},
		{"bad number", "G0\nG1 X1.2.3", 2},
		{"duplicate letter", "G1 X1 X2", 1},
		{"unterminated comment", "G1 (oops", 1},
		{"stray character", "G1 #1", 1},
		{"misplaced block delete", "G1 / X1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.line, syntaxErr.Line)
		})
	}
}

func TestParseFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "part.nc")
	require.NoError(t, os.WriteFile(file, []byte("G0 X1\nG1 Y2\n"), 0o644))

	path, err := ParseFile(file)
	require.NoError(t, err)
	assert.Len(t, path, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}
