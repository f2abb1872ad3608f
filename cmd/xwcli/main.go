package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"crosswarped.com/xwsolve"
	"crosswarped.com/xwsolve/pkg/primitives"
)

// fallbackWords is the built-in list used when no word file can be
// read.
var fallbackWords = []string{"LASER", "SAILS", "SHEET", "STEER", "HEEL", "HIKE", "KEEL", "KNOT"}

func main() {

	gridFile := flag.String("grid", "", "The file to load the grid from")
	wordsFile := flag.String("words", "", "The file to load words from")
	seed := flag.Uint64("seed", 0, "Fixed RNG seed; 0 seeds from OS entropy")
	all := flag.Bool("all", false, "Collect solutions up to -max instead of stopping at the first")
	maxSolutions := flag.Int("max", 0, "The maximum number of solutions for -all")
	exportJSON := flag.Bool("export", false, "Print the grid and slot map as JSON and exit")

	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the solver")

	profile := flag.Bool("profile", false, "Profile the solver")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	if *gridFile == "" {
		fmt.Println("A grid file is required (-grid)")
		os.Exit(1)
	}

	grid, err := loadGrid(*gridFile)
	if err != nil {
		fmt.Println("Error loading grid:", err)
		os.Exit(1)
	}

	if issues := grid.NumberingIssues(); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Println("Warning:", issue)
		}
	}

	if *exportJSON {
		out, err := grid.ExportJSON()
		if err != nil {
			fmt.Println("Error exporting grid:", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	words, err := loadWords(*wordsFile)
	if err != nil {
		fmt.Println("Error loading words:", err)
		os.Exit(1)
	}
	fmt.Println("Words:", len(words))

	lex, err := primitives.NewLexicon(words)
	if err != nil {
		fmt.Println("Error building lexicon:", err)
		os.Exit(1)
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			fmt.Println("Error creating profile file:", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			fmt.Println("Error creating memory profile file:", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Println("Error starting CPU profile:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := xwsolve.Config{MaxSolutions: *maxSolutions}
	if *seed != 0 {
		cfg.Seed = seed
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	solver := xwsolve.New(lex)

	var solutions []*xwsolve.Solution
	if *all {
		solutions, err = solver.SolveAll(ctx, grid, cfg)
	} else {
		var solution *xwsolve.Solution
		solution, err = solver.Solve(ctx, grid, cfg)
		if solution != nil {
			solutions = []*xwsolve.Solution{solution}
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, xwsolve.ErrNoSolution):
			fmt.Println("No solution")
		case errors.Is(err, xwsolve.ErrNoSlots):
			fmt.Println("Grid has no slots")
		case errors.Is(err, xwsolve.ErrCancelled):
			fmt.Println("Cancelled:", ctx.Err())
		default:
			fmt.Println("Solve failed:", err)
		}
		os.Exit(1)
	}

	for i, solution := range solutions {
		fmt.Println("--------------------------------")
		if len(solutions) > 1 {
			fmt.Printf("Solution #%d:\n", i+1)
		}
		fmt.Println(solution.Render())
		printEntries("Across", solution.Across)
		printEntries("Down", solution.Down)
		fmt.Printf("(%d recursive calls in %v)\n", solution.Stats.RecursiveCalls, solution.Stats.Elapsed)
	}

	fmt.Println("--------------------------------")
	fmt.Println("Done")

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}
}

func printEntries(title string, entries []xwsolve.Entry) {
	fmt.Println(title + ":")
	for _, e := range entries {
		fmt.Printf("  %d. %s\n", e.Number, e.Word)
	}
}

// loadGrid reads a grid file: one row per line, cells separated by
// whitespace, encoded as '#', 'A'..'Z', a decimal number, or '.'.
func loadGrid(path string) (xwsolve.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return xwsolve.Grid{}, err
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return xwsolve.Grid{}, err
	}
	return xwsolve.ParseGrid(rows)
}

// loadWords reads one uppercase word per line, skipping blank lines
// and '#' comments. Lowercase input is folded to uppercase; any other
// character is an error. An unreadable or unnamed file falls back to
// the built-in list.
func loadWords(path string) ([]string, error) {
	if path == "" {
		return fallbackWords, nil
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Println("Falling back to built-in words:", err)
		return fallbackWords, nil
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		for _, r := range word {
			if r < 'A' || r > 'Z' {
				return nil, fmt.Errorf("word %s contains unsupported letter %q", word, r)
			}
		}
		words = append(words, word)
	}
	return words, scanner.Err()
}
