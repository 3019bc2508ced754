// Benchmark tool for load-testing Skipjack's calculation endpoint.
//
// Usage:
//
//	go run cmd/benchmark/main.go -url http://localhost:8080 -requests 10000
//
// This tool:
//  1. Fetches the product and country catalog from a running server
//  2. Fires randomized /calculate requests at the configured concurrency
//  3. Verifies each response's cost identity (total = product + tariff)
//  4. Reports latency percentiles and throughput
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// CalculateRequest is the Skipjack API request format
type CalculateRequest struct {
	Product       string  `json:"product"`
	ExportingFrom string  `json:"exportingFrom"`
	ImportingTo   string  `json:"importingTo"`
	Quantity      float64 `json:"quantity"`
	Mode          string  `json:"mode"`
	Currency      string  `json:"currency,omitempty"`
}

// CalculateResponse is the subset of the response the benchmark checks
type CalculateResponse struct {
	ID           string  `json:"id"`
	TariffRate   float64 `json:"tariffRate"`
	TariffType   string  `json:"tariffType"`
	RateSource   string  `json:"rateSource"`
	ProductCost  float64 `json:"productCost"`
	TariffAmount float64 `json:"tariffAmount"`
	TotalCost    float64 `json:"totalCost"`
}

// Metrics tracks benchmark results
type Metrics struct {
	TotalProcessed int64
	TotalErrors    int64
	TotalMismatch  int64 // responses whose cost identity did not hold

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *Metrics) record(d time.Duration) {
	m.mu.Lock()
	m.latencies = append(m.latencies, d)
	m.mu.Unlock()
}

func main() {
	// Parse flags
	baseURL := flag.String("url", "http://localhost:8080", "Skipjack base URL")
	userID := flag.String("user", "benchmark-test", "User ID for requests")
	requests := flag.Int("requests", 10000, "Number of requests to send")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	currency := flag.String("currency", "", "Display currency for requests (default: base)")
	seed := flag.Int64("seed", 42, "Random seed for request generation")
	verbose := flag.Bool("verbose", false, "Print each request result")
	flag.Parse()

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║         SKIPJACK BENCHMARK - Calculation Throughput           ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nSkipjack URL: %s\n", *baseURL)
	fmt.Printf("User ID:      %s\n", *userID)
	fmt.Printf("Requests:     %d\n", *requests)
	fmt.Printf("Workers:      %d\n", *workers)
	if *currency != "" {
		fmt.Printf("Currency:     %s\n", *currency)
	}
	fmt.Println()

	// Check Skipjack is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Skipjack not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Skipjack is running:")
		fmt.Println("  cd skipjack && go run cmd/skipjack/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Skipjack is healthy")

	// Fetch the catalog
	products, err := fetchList(*baseURL, "/products", "products")
	if err != nil {
		fmt.Printf("ERROR: Failed to fetch products: %v\n", err)
		os.Exit(1)
	}
	countries, err := fetchList(*baseURL, "/countries", "countries")
	if err != nil {
		fmt.Printf("ERROR: Failed to fetch countries: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Catalog loaded: %d products, %d countries\n", len(products), len(countries))

	if len(products) == 0 || len(countries) < 2 {
		fmt.Println("ERROR: Catalog too small to generate requests")
		os.Exit(1)
	}

	// Run benchmark
	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(*baseURL, *userID, *currency, products, countries, *requests, *workers, *seed, *verbose)
	duration := time.Since(startTime)

	// Print results
	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// fetchList pulls a string array field from a catalog endpoint.
func fetchList(baseURL, path, field string) ([]string, error) {
	resp, err := http.Get(baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(body[field], &list); err != nil {
		return nil, err
	}
	return list, nil
}

func runBenchmark(baseURL, userID, currency string, products, countries []string, requests, numWorkers int, seed int64, verbose bool) *Metrics {
	metrics := &Metrics{}

	// Pre-generate the request mix so workers only do I/O
	rng := rand.New(rand.NewSource(seed))
	work := make(chan CalculateRequest, 100)

	go func() {
		for i := 0; i < requests; i++ {
			exp := countries[rng.Intn(len(countries))]
			imp := countries[rng.Intn(len(countries))]
			for imp == exp {
				imp = countries[rng.Intn(len(countries))]
			}
			work <- CalculateRequest{
				Product:       products[rng.Intn(len(products))],
				ExportingFrom: exp,
				ImportingTo:   imp,
				Quantity:      float64(rng.Intn(500) + 1),
				Mode:          "global",
				Currency:      currency,
			}
		}
		close(work)
	}()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for req := range work {
				start := time.Now()
				result, err := calculate(client, baseURL, userID, req)
				elapsed := time.Since(start)

				atomic.AddInt64(&metrics.TotalProcessed, 1)
				metrics.record(elapsed)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s %s->%s: %v\n", req.Product, req.ExportingFrom, req.ImportingTo, err)
					}
					continue
				}

				// The cost identity must hold to the cent
				if math.Abs(result.TotalCost-(result.ProductCost+result.TariffAmount)) > 0.01 {
					atomic.AddInt64(&metrics.TotalMismatch, 1)
				}

				if verbose {
					fmt.Printf("✓ %-28s | %-13s -> %-13s | Rate: %6.2f%% (%s) | Total: %12.2f\n",
						req.Product,
						req.ExportingFrom,
						req.ImportingTo,
						result.TariffRate,
						result.TariffType,
						result.TotalCost,
					)
				}
			}
		}()
	}

	wg.Wait()

	return metrics
}

func calculate(client *http.Client, baseURL, userID string, req CalculateRequest) (*CalculateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-User-ID", userID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result CalculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 REQUEST STATISTICS\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)
	fmt.Printf("   Cost Mismatches:  %d\n", m.TotalMismatch)

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if len(sorted) > 0 {
		var sum time.Duration
		for _, d := range sorted {
			sum += d
		}
		avg := sum / time.Duration(len(sorted))
		tps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %v\n", avg.Round(time.Microsecond))
		fmt.Printf("   p50 Latency:      %v\n", percentile(sorted, 50).Round(time.Microsecond))
		fmt.Printf("   p95 Latency:      %v\n", percentile(sorted, 95).Round(time.Microsecond))
		fmt.Printf("   p99 Latency:      %v\n", percentile(sorted, 99).Round(time.Microsecond))
		fmt.Printf("   Throughput:       %.2f req/sec\n", tps)
	}

	// Interpretation
	fmt.Printf("\n💡 INTERPRETATION\n")
	errRate := float64(0)
	if m.TotalProcessed > 0 {
		errRate = float64(m.TotalErrors) / float64(m.TotalProcessed)
	}
	switch {
	case errRate == 0:
		fmt.Println("   ✅ No errors - every pair resolved to a rate")
	case errRate < 0.01:
		fmt.Println("   ⚠️  Under 1% errors - check server logs for dropped pairs")
	default:
		fmt.Println("   ❌ High error rate - is the catalog seeded?")
	}
	if m.TotalMismatch == 0 {
		fmt.Println("   ✅ Cost identity held on every response")
	} else {
		fmt.Println("   ❌ Cost identity violations detected - rounding bug?")
	}

	fmt.Println()
}
