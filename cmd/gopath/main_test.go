package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/pkg/toolpath"
	"github.com/philipparndt/gopath/pkg/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeToolpath(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part.nc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGeometryCommandJSON(t *testing.T) {
	file := writeToolpath(t, "G0 X1\nG81 X2 Y2 Z-1 R1\n")

	out, err := execute(t, "geometry", file, "--format", "json")
	require.NoError(t, err)

	var geom pathgeom.Geometry
	require.NoError(t, json.Unmarshal([]byte(out), &geom))
	assert.True(t, geom.Consistent())
	assert.Len(t, geom.Points, 6)
	assert.Equal(t, []pathgeom.SegmentClass{
		pathgeom.Rapid, pathgeom.Rapid, pathgeom.Rapid, pathgeom.Feed, pathgeom.Rapid,
	}, geom.Classes)
}

func TestGeometryCommandYAML(t *testing.T) {
	file := writeToolpath(t, "G1 X3\n")

	out, err := execute(t, "geometry", file, "--format", "yaml")
	require.NoError(t, err)

	var geom pathgeom.Geometry
	require.NoError(t, yaml.Unmarshal([]byte(out), &geom))
	assert.Len(t, geom.Points, 2)
	assert.Equal(t, []pathgeom.SegmentClass{pathgeom.Feed}, geom.Classes)
	assert.Contains(t, out, "feed")
}

func TestGeometryCommandRejectsUnknownFormat(t *testing.T) {
	file := writeToolpath(t, "G1 X3\n")

	_, err := execute(t, "geometry", file, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestGeometryCommandSyntaxError(t *testing.T) {
	file := writeToolpath(t, "G1 X3\nG1 X\n")

	_, err := execute(t, "geometry", file, "--format", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolpath.ErrSyntax))
}

func TestStatsCommand(t *testing.T) {
	file := writeToolpath(t, "G0 X3 Y4\nG1 X3 Y4 Z-2\n")

	out, err := execute(t, "stats", file)
	require.NoError(t, err)

	assert.Contains(t, out, "Commands: 2")
	assert.Contains(t, out, "Points: 3")
	assert.Contains(t, out, "Total Length: 7.000000 units")
	assert.Contains(t, out, "End: (3.000000, 4.000000, -2.000000)")
}

func TestInvalidDeviationFlag(t *testing.T) {
	file := writeToolpath(t, "G1 X3\n")

	for _, value := range []string{"-1", "0"} {
		_, err := execute(t, "stats", file, "--deviation", value)
		assert.ErrorContains(t, err, "invalid configuration", value)
	}

	// reset for the tests that follow
	require.NoError(t, rootCmd.PersistentFlags().Set("deviation", "0.2"))
}

func TestMessageCarriesError(t *testing.T) {
	msg := message(watcher.Result{File: "part.nc", Err: errors.New("line 2: invalid number")})
	assert.Equal(t, "line 2: invalid number", msg.Error)
	assert.Nil(t, msg.Geometry)

	var out bytes.Buffer
	printResult(&out, watcher.Result{File: "part.nc", Err: errors.New("boom")})
	assert.True(t, strings.HasSuffix(out.String(), "boom\n"))
}
