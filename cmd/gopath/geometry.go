package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/pkg/toolpath"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var geometryFormat string

var geometryCmd = &cobra.Command{
	Use:   "geometry [file]",
	Short: "Print the computed geometry of a toolpath",
	Long:  "Build the toolpath and print its points, markers and segment classes as JSON or YAML.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeometry,
}

func init() {
	geometryCmd.Flags().StringVarP(&geometryFormat, "format", "f", "json", "Output format: json or yaml")
	rootCmd.AddCommand(geometryCmd)
}

func runGeometry(cmd *cobra.Command, args []string) error {
	path, err := toolpath.ParseFile(args[0])
	if err != nil {
		return err
	}

	geom := pathgeom.Build(path, settings.Options)
	return writeGeometry(cmd.OutOrStdout(), geom, geometryFormat)
}

func writeGeometry(w io.Writer, geom *pathgeom.Geometry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(geom); err != nil {
			return fmt.Errorf("failed to encode geometry: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(geom); err != nil {
			return fmt.Errorf("failed to encode geometry: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
	return nil
}
