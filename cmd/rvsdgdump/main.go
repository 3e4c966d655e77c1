// Command rvsdgdump is thin CLI glue: it wires the harness front-end, the
// normalizer and the textual dump writer together to print a graph's dump
// form for a given Go snippet file (§1 Non-goals: "driver is thin glue").
// It takes its only argument through afs, matching the teacher's
// location-agnostic file access (inspector/repository.Detector's
// afs.New().DownloadWithURL), so a local path or a remote URL both work.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"

	"github.com/rvsdg-ir/core/normalize"
	"github.com/rvsdg-ir/core/rvsdg/dump"
	"github.com/rvsdg-ir/core/rvsdg/frontend"
)

// exampleSnippet is used when no path argument is given, so `go run
// ./cmd/rvsdgdump` always has something to print.
const exampleSnippet = `
func inc(x int) int {
	return x + 1
}

func twice(x int) int {
	return inc(inc(x))
}
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rvsdgdump:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	src := exampleSnippet
	if len(args) > 0 {
		fs := afs.New()
		data, err := fs.DownloadWithURL(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		src = string(data)
	}

	g, err := frontend.BuildGraph(src)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	normalize.Normalize(g)
	fmt.Print(dump.Write(g))
	return nil
}
