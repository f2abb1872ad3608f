package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"google.golang.org/api/iterator"

	"crosswarped.com/xwsolve"
	"crosswarped.com/xwsolve/pkg/primitives"
)

type SolveGridRequest struct {
	Grid         [][]string `json:"grid"`
	Words        []string   `json:"words"`
	WordScope    string     `json:"wordScope"`
	MaxSolutions int        `json:"maxSolutions"`
	Seed         *uint64    `json:"seed"`
}

type SolvedGrid struct {
	Grid       string            `json:"grid"`
	Assignment map[string]string `json:"assignment"`
	Across     []xwsolve.Entry   `json:"across"`
	Down       []xwsolve.Entry   `json:"down"`
}

type SolveGridResponse struct {
	Success   bool         `json:"success"`
	Solutions []SolvedGrid `json:"solutions"`
	Error     string       `json:"error,omitempty"`
}

func getWords(ctx context.Context, scope string) ([]string, error) {
	client, err := bigquery.NewClient(ctx, "xword-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT word_key FROM `xword-x.FirestoreQuery.all_words` WHERE scope = %q", scope)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, strings.ToUpper(word))
	}
	return words, nil
}

func execute(ctx context.Context, req SolveGridRequest) ([]SolvedGrid, error) {
	if len(req.Grid) == 0 {
		return nil, fmt.Errorf("grid must not be empty")
	}
	if req.MaxSolutions < 0 {
		return nil, fmt.Errorf("maxSolutions must not be negative")
	}
	if req.MaxSolutions > 10 {
		return nil, fmt.Errorf("maxSolutions must be at most 10")
	}

	for i, word := range req.Words {
		req.Words[i] = strings.ToUpper(word)
	}

	if req.WordScope != "" {
		scopeWords, err := getWords(ctx, req.WordScope)
		if err != nil {
			return nil, fmt.Errorf("getWords: %w", err)
		}
		fmt.Printf("Loaded %d words for scope %s\n", len(scopeWords), req.WordScope)
		req.Words = append(req.Words, scopeWords...)
	}

	if len(req.Words) == 0 {
		return nil, fmt.Errorf("words must not be empty")
	}

	grid, err := xwsolve.ParseGrid(req.Grid)
	if err != nil {
		return nil, err
	}

	lex, err := primitives.NewLexicon(req.Words)
	if err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
		fmt.Printf("Setting timeout to %v\n", timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	solver := xwsolve.New(lex)
	cfg := xwsolve.Config{MaxSolutions: req.MaxSolutions, Seed: req.Seed}

	var solutions []*xwsolve.Solution
	if req.MaxSolutions > 1 {
		solutions, err = solver.SolveAll(ctx, grid, cfg)
	} else {
		var solution *xwsolve.Solution
		solution, err = solver.Solve(ctx, grid, cfg)
		if solution != nil {
			solutions = []*xwsolve.Solution{solution}
		}
	}
	if err != nil {
		if errors.Is(err, xwsolve.ErrCancelled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	solved := make([]SolvedGrid, len(solutions))
	for i, solution := range solutions {
		solved[i] = SolvedGrid{
			Grid:       solution.Render(),
			Assignment: solution.Assignment,
			Across:     solution.Across,
			Down:       solution.Down,
		}
	}
	return solved, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveGrid(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveGridRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("Error parsing JSON body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		response := SolveGridResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		}
		json.NewEncoder(w).Encode(response)
		return
	}

	solutions, err := execute(r.Context(), req)

	response := SolveGridResponse{
		Success:   err == nil,
		Solutions: solutions,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Printf("Error marshaling response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/solve-grid", solveGrid)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
