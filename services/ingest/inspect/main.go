// Command inspect prints the variables of one ARGO NetCDF file and which
// alias the ingester would pick for each quantity.
//
//	go run ./services/ingest/inspect --file path/to/profile.nc
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/floatchat/argo-explorer/services/ingest/internal/argo"
	"github.com/floatchat/argo-explorer/services/ingest/internal/utils"
)

const sampleSize = 5

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	path, err := fileFromArgs(args)
	if err != nil {
		return err
	}
	if path == "" {
		root := strings.TrimSpace(os.Getenv("INGEST_DIR"))
		if root == "" {
			root = "Argo data"
		}
		files, err := utils.DiscoverFiles(root, ".nc")
		if err != nil || len(files) == 0 {
			return fmt.Errorf("no .nc file provided and none found under %s (usage: inspect --file path/to/file.nc)", root)
		}
		path = files[0]
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}

	f, err := argo.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	printSummary(w, f)
	return nil
}

func fileFromArgs(args []string) (string, error) {
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", "", "NetCDF file to inspect")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w (usage: inspect --file path/to/file.nc)", err)
	}
	if *file != "" {
		return *file, nil
	}
	return fs.Arg(0), nil
}

func printSummary(w io.Writer, f *argo.File) {
	fmt.Fprintln(w, "File:", f.Path())
	fmt.Fprintln(w, "--- Global Attributes ---")
	for _, attr := range f.Attributes() {
		fmt.Fprintf(w, "  %s: %v\n", attr.Name, attr.Value)
	}

	fmt.Fprintln(w, "\n--- All Variables ---")
	for _, name := range f.VariableNames() {
		dims, _ := f.Dimensions(name)
		fmt.Fprintf(w, "  %s  dims=%v\n", name, dims)
	}

	fmt.Fprintln(w, "\n--- Main Variables Summary ---")
	for _, q := range argo.Quantities {
		r := argo.Resolve(f, q)
		if !r.Found {
			fmt.Fprintf(w, "  %s: not found (%s)\n", q, strings.Join(argo.Aliases(q), ", "))
			continue
		}
		dims, _ := f.Dimensions(r.Name)
		s := summarize(r.Value)
		fmt.Fprintf(w, "  %s -> %s\n", q, r.Name)
		fmt.Fprintf(w, "    dims: %v length: %d\n", dims, s.length)
		fmt.Fprintf(w, "    min: %s max: %s\n", s.min, s.max)
		fmt.Fprintf(w, "    sample: %v\n", s.sample)
	}
}

type summary struct {
	length   int
	min, max string
	sample   []float64
}

// summarize reports length, NaN-ignoring min/max and the first readings.
func summarize(v argo.Value) summary {
	vals := v.Values()
	s := summary{length: len(vals), min: "null", max: "null"}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if !math.IsInf(lo, 1) {
		s.min = fmt.Sprint(lo)
		s.max = fmt.Sprint(hi)
	}

	n := min(sampleSize, len(vals))
	s.sample = vals[:n]
	return s
}
