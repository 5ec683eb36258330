package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xiaobogaga/decaf/compiler/internal"
)

// decafc checks the syntax trees produced by the decaf parser and prints the semantic errors found.

var (
	path       = flag.String("path", ".", "the path of a tree file, or a directory of tree files, to check")
	configPath = flag.String("config", "", "an optional yaml config file")
	verbose    = flag.Bool("v", false, "whether print the progress of each pass")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg := internal.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = internal.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
	}
	if *verbose {
		cfg.Verbose = true
	}
	results, err := internal.Check(*path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	failed := false
	for _, result := range results {
		if len(result.Diagnostics) == 0 {
			continue
		}
		failed = true
		shown := cfg.Truncate(result.Diagnostics)
		for _, d := range shown {
			fmt.Println(cfg.Format(result.File, d))
		}
		if hidden := len(result.Diagnostics) - len(shown); hidden > 0 {
			fmt.Printf("%s: %d more errors not shown\n", result.File, hidden)
		}
	}
	if failed {
		return 1
	}
	return 0
}
