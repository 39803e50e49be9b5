// Command swiftgraph scans a directory tree of Swift sources and writes a
// JSON dependency graph of the declared entities.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/dusk-indust/swiftgraph/internal/config"
	"github.com/dusk-indust/swiftgraph/internal/export"
	"github.com/dusk-indust/swiftgraph/internal/graph"
	"github.com/dusk-indust/swiftgraph/internal/index"
	"github.com/dusk-indust/swiftgraph/internal/mcptools"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Output       string
	InRoot       bool
	Merge        bool
	DBPath       string
	Diagram      bool
	ServeMCP     bool
	ServeMCPHTTP string
	Jobs         int
	Verbose      bool
	Version      bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("swiftgraph", flag.ContinueOnError)
	fs.StringVar(&flags.Output, "output", "", "output path for the JSON graph (default "+export.DefaultOutputFile+")")
	fs.BoolVar(&flags.InRoot, "in-root", false, "write the graph into the scanned directory instead of the working directory")
	fs.BoolVar(&flags.Merge, "merge-duplicates", false, "merge same-named entities instead of keeping only the last one")
	fs.StringVar(&flags.DBPath, "db", "", "also persist the graph into a KuzuDB directory at this path")
	fs.BoolVar(&flags.Diagram, "diagram", false, "print a Mermaid class diagram of the graph to stdout")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.StringVar(&flags.ServeMCPHTTP, "serve-mcp-http", "", "run as MCP server over HTTP on this address (e.g. :8823)")
	fs.IntVar(&flags.Jobs, "jobs", runtime.NumCPU(), "number of files parsed concurrently")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser := graph.NewSwiftParser()
	defer parser.Close()

	if flags.ServeMCP || flags.ServeMCPHTTP != "" {
		return runServe(ctx, parser, flags)
	}

	root := fs.Arg(0)
	if root == "" {
		return errors.New("usage: swiftgraph [flags] <root-dir>")
	}
	return runScan(ctx, parser, root, flags)
}

// runServe blocks serving the MCP tools until the context is cancelled.
func runServe(ctx context.Context, parser graph.Parser, flags cliFlags) error {
	svc := mcptools.NewGraphService(parser)
	if flags.ServeMCPHTTP != "" {
		return mcptools.RunHTTP(ctx, svc, flags.ServeMCPHTTP)
	}
	return mcptools.RunStdio(ctx, mcptools.NewGraphMCPServer(svc))
}

// runScan performs one extraction run and writes the outputs.
func runScan(ctx context.Context, parser graph.Parser, root string, flags cliFlags) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	policy := graph.PolicyOverwrite
	if flags.Merge || cfg.DuplicatePolicy == string(graph.PolicyMerge) {
		policy = graph.PolicyMerge
	}
	store := graph.NewMemStore(policy)

	var logf func(string, ...any)
	if flags.Verbose || cfg.Verbose {
		logf = log.New(os.Stderr, "swiftgraph: ", 0).Printf
	}

	ix := index.New(parser, store,
		index.WithExcludeDirs(cfg.ExcludeDirs),
		index.WithJobs(flags.Jobs),
		index.WithLogf(logf),
	)
	report, err := ix.Run(ctx, root)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "warning: skipped %s: %v\n", f.Path, f.Err)
	}

	// A scan that finds no Swift sources succeeds without producing output.
	if report.FilesFound == 0 {
		fmt.Fprintf(os.Stderr, "no Swift sources found under %s\n", root)
		return nil
	}

	outPath := outputPath(root, cfg, flags)
	if err := export.WriteGraph(ctx, store, outPath); err != nil {
		return err
	}

	if flags.DBPath != "" {
		if err := persistKuzu(ctx, store, flags.DBPath); err != nil {
			return err
		}
	}

	if flags.Diagram {
		mermaid, err := export.GenerateMermaid(ctx, store)
		if err != nil {
			return err
		}
		fmt.Print(mermaid)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d entities from %d of %d files)\n",
		outPath, stats.EntityCount, report.FilesParsed, report.FilesFound)
	return nil
}

// outputPath resolves where the JSON graph lands. The default is a fixed
// filename in the invoking process's working directory; -in-root anchors a
// relative path at the scanned directory instead.
func outputPath(root string, cfg *config.ProjectConfig, flags cliFlags) string {
	path := flags.Output
	if path == "" {
		path = cfg.Output
	}
	if path == "" {
		path = export.DefaultOutputFile
	}
	if flags.InRoot && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path
}
