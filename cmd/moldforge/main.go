// moldforge builds a printable beard-mold shell from a scanned contour
// payload and writes a binary STL plus a stats sidecar.
//
// Usage:
//
//	moldforge [flags] -- <input.json> <output.stl>
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/moldforge/internal/fsutil"
	"github.com/banshee-data/moldforge/internal/mesh/native"
	"github.com/banshee-data/moldforge/internal/monitoring"
	"github.com/banshee-data/moldforge/internal/pipeline"
	"github.com/banshee-data/moldforge/internal/runlog"
	"github.com/banshee-data/moldforge/internal/version"
)

var (
	runlogPath  = flag.String("runlog", "", "Path to an optional sqlite run-history database")
	quiet       = flag.Bool("quiet", false, "Mute diagnostic logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("moldforge %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *quiet {
		monitoring.Mute()
	}

	inputPath, outputPath, err := positionalPaths(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "moldforge: %v\n", err)
		usage()
		os.Exit(2)
	}

	if err := run(inputPath, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "moldforge: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: moldforge [flags] -- <input.json> <output.stl>\n\nFlags:\n")
	flag.PrintDefaults()
}

// positionalPaths extracts the two required paths. flag.Parse has already
// consumed the "--" separator, so args holds only what followed it.
func positionalPaths(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected exactly two positional arguments after --, got %d", len(args))
	}
	return args[0], args[1], nil
}

func run(inputPath, outputPath string) error {
	osFS := fsutil.OSFileSystem{}
	input, err := osFS.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input %s: %w", inputPath, err)
	}

	driver := pipeline.New(native.New(), osFS)

	start := time.Now()
	result, runErr := driver.Run(input, outputPath)
	elapsed := time.Since(start)

	if result != nil && *runlogPath != "" {
		recordRun(result, inputPath, outputPath, elapsed, runErr)
	}

	if runErr != nil {
		var ee *pipeline.ExportError
		if errors.As(runErr, &ee) {
			// Stats sidecar survived; surface the partial outcome.
			return fmt.Errorf("%w (stats sidecar kept at %s)", runErr, result.StatsPath)
		}
		return runErr
	}

	fmt.Println(summary(result, elapsed))
	return nil
}

// summary is the one-line success report: scale, identifiers, counts and
// final millimetre dimensions.
func summary(r *pipeline.Result, elapsed time.Duration) string {
	overlay := r.Overlay
	if overlay == "" {
		overlay = "-"
	}
	return fmt.Sprintf("job=%s overlay=%s scale=%g verts=%d tris=%d holes=%d dims_mm=%.1fx%.1fx%.1f elapsed=%s",
		r.JobID, overlay, r.Scale, r.Stats.Verts, r.Stats.Tris, r.HoleCount,
		r.Stats.DimMM.X, r.Stats.DimMM.Y, r.Stats.DimMM.Z, elapsed.Round(time.Millisecond))
}

// recordRun appends the run to the history database. Run-log failures are
// logged, never fatal: history is a convenience, not an output artifact.
func recordRun(r *pipeline.Result, inputPath, outputPath string, elapsed time.Duration, runErr error) {
	db, err := runlog.Open(*runlogPath)
	if err != nil {
		monitoring.Logf("runlog: open failed: %v", err)
		return
	}
	defer db.Close()

	outcome := "ok"
	if runErr != nil {
		outcome = "export-failed"
	}
	err = db.InsertRun(runlog.Run{
		JobID:      r.JobID,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Tris:       r.Stats.Tris,
		Verts:      r.Stats.Verts,
		DimMMX:     r.Stats.DimMM.X,
		DimMMY:     r.Stats.DimMM.Y,
		DimMMZ:     r.Stats.DimMM.Z,
		Duration:   elapsed,
		Outcome:    outcome,
	})
	if err != nil {
		monitoring.Logf("runlog: insert failed: %v", err)
	}
}
