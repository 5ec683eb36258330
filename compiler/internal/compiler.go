package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Analyze runs both passes over program and returns the diagnostics in report order.
func Analyze(program *Program, cfg *Config) []*Diagnostic {
	logger := cfg.Logger()
	bag := NewDiagnosticBag()
	logger.Println("compiler: start building scopes")
	BuildScopes(program, bag)
	logger.Printf("compiler: global scope has %d declarations, %d conflicts", program.Scope.Len(), bag.Len())
	logger.Println("compiler: start checker")
	CheckProgram(program, bag)
	logger.Printf("compiler: %d diagnostics", bag.Len())
	return bag.Diagnostics()
}

// Result holds the diagnostics of one checked file.
type Result struct {
	File        string
	Diagnostics []*Diagnostic
}

// Check loads and analyzes the tree at path. A directory is checked file by file, each .yaml or .yml
// file in it being a separate program; sub directories are ignored.
func Check(path string, cfg *Config) ([]*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	if !info.IsDir() {
		result, err := checkFile(path, cfg)
		if err != nil {
			return nil, err
		}
		return []*Result{result}, nil
	}
	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	var names []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)
	var results []*Result
	for _, name := range names {
		result, err := checkFile(filepath.Join(path, name), cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func checkFile(path string, cfg *Config) (*Result, error) {
	cfg.Logger().Println("compiler: start loading tree at path: " + path)
	program, err := LoadTreeFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{File: path, Diagnostics: Analyze(program, cfg)}, nil
}
