package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/gopath/pkg/analysis"
	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/pkg/toolpath"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Display statistics about a toolpath",
	Long:  "Show command and point counts, travelled length per motion class and segment length extremes.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	filename := args[0]

	path, err := toolpath.ParseFile(filename)
	if err != nil {
		return err
	}

	geom := pathgeom.Build(path, settings.Options)
	printSummary(cmd.OutOrStdout(), filename, analysis.Summarize(geom, len(path)))
	return nil
}

func printSummary(w io.Writer, filename string, s *analysis.Summary) {
	fmt.Fprintln(w, "Toolpath Information")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "File: %s\n\n", filename)

	fmt.Fprintln(w, "Path Statistics:")
	fmt.Fprintf(w, "  Commands: %d\n", s.Commands)
	fmt.Fprintf(w, "  Points: %d\n", s.PointCount)
	fmt.Fprintf(w, "  Markers: %d\n", s.MarkerCount)
	fmt.Fprintf(w, "  Segments: %d\n", s.SegmentCount)
	fmt.Fprintf(w, "  Total Length: %s\n\n", analysis.FormatMeasurement(s.TotalLength, ""))

	if s.PointCount == 0 {
		return
	}

	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintf(w, "  Start: %s\n", analysis.FormatVector(s.Start))
	fmt.Fprintf(w, "  End: %s\n\n", analysis.FormatVector(s.End))

	fmt.Fprintln(w, "Motion:")
	for _, info := range s.Classes {
		fmt.Fprintf(w, "  %-6s %d segments, %s (longest %.6f)\n",
			info.Class.String()+":", info.Segments, analysis.FormatMeasurement(info.Length, ""), info.Longest)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Segment Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", s.MinSegment)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", s.MaxSegment)
	fmt.Fprintf(w, "  Average: %.6f units\n", s.AvgSegment)
	if s.ZeroSegments > 0 {
		fmt.Fprintf(w, "  Zero length: %d\n", s.ZeroSegments)
	}
}
