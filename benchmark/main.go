// Package main provides a load benchmarking tool for the heatwatch HTTP API.
// It sends a fixed number of requests per route with a pool of workers,
// measuring average and percentile latencies, and writes CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - a heatwatch server running (heatwatch serve --db-backend none)
//
// Usage: go run benchmark/main.go [base-url]
//
//	base-url: Server address, defaults to http://localhost:5000
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"
)

// BenchmarkResult holds the latency summary of one route.
type BenchmarkResult struct {
	Route    string
	Requests int
	Errors   int
	Average  time.Duration
	P50      time.Duration
	P95      time.Duration
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Workers  int
	Requests int
	Routes   []string
}

func main() {
	config := BenchmarkConfig{
		BaseURL:  "http://localhost:5000",
		Timeout:  10 * time.Second,
		Workers:  8,
		Requests: 500,
		Routes:   []string{"/send", "/stats", "/sensor-data/50", "/get-data"},
	}
	if len(os.Args) > 1 {
		config.BaseURL = os.Args[1]
	}

	client := &http.Client{Timeout: config.Timeout}
	if err := checkPrerequisites(client, config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting benchmark: %s, %d workers, %d requests per route\n", config.BaseURL, config.Workers, config.Requests)
	var results []BenchmarkResult
	for _, route := range config.Routes {
		results = append(results, runBenchmark(client, config, route))
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// checkPrerequisites verifies the server answers on its index route.
func checkPrerequisites(client *http.Client, config BenchmarkConfig) error {
	resp, err := client.Get(config.BaseURL + "/")
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", config.BaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// target returns the URL for one request. Ingest requests get a plausible random reading.
func target(config BenchmarkConfig, route string) string {
	if route == "/send" {
		return fmt.Sprintf("%s/send?temperature=%.2f&humidity=%.2f", config.BaseURL, 20+rand.Float64()*10, 30+rand.Float64()*40)
	}
	return config.BaseURL + route
}

// runBenchmark sends config.Requests requests to route and summarizes their latencies.
func runBenchmark(client *http.Client, config BenchmarkConfig, route string) BenchmarkResult {
	fmt.Printf("Running %s\n", route)

	jobs := make(chan struct{})
	var (
		mu        sync.Mutex
		latencies []time.Duration
		errs      int
		wg        sync.WaitGroup
	)
	for range config.Workers {
		wg.Go(func() {
			for range jobs {
				start := time.Now()
				resp, err := client.Get(target(config, route))
				elapsed := time.Since(start)
				ok := err == nil && resp.StatusCode == http.StatusOK
				if resp != nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					_ = resp.Body.Close()
				}
				mu.Lock()
				if ok {
					latencies = append(latencies, elapsed)
				} else {
					errs++
				}
				mu.Unlock()
			}
		})
	}
	for range config.Requests {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()

	result := BenchmarkResult{Route: route, Requests: config.Requests, Errors: errs}
	if len(latencies) > 0 {
		slices.Sort(latencies)
		var total time.Duration
		for _, l := range latencies {
			total += l
		}
		result.Average = total / time.Duration(len(latencies))
		result.P50 = latencies[len(latencies)*50/100]
		result.P95 = latencies[min(len(latencies)-1, len(latencies)*95/100)]
	}
	fmt.Printf("  Average: %s, P50: %s, P95: %s, Errors: %d\n", result.Average, result.P50, result.P95, result.Errors)
	return result
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/heatwatch_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"route", "requests", "errors", "avg_ms", "p50_ms", "p95_ms"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, r := range results {
		record := []string{
			r.Route,
			fmt.Sprint(r.Requests),
			fmt.Sprint(r.Errors),
			fmt.Sprintf("%.3f", float64(r.Average.Microseconds())/1000),
			fmt.Sprintf("%.3f", float64(r.P50.Microseconds())/1000),
			fmt.Sprintf("%.3f", float64(r.P95.Microseconds())/1000),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-16s: Avg: %s, P50: %s, P95: %s, Errors: %d/%d\n", r.Route, r.Average, r.P50, r.P95, r.Errors, r.Requests)
	}
}
