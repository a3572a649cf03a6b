package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	URL             string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	Amount          float64
	FromCurrency    string
	ToCurrency      string
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	StatusCode int
	Duration   time.Duration
	Success    bool
	Error      error
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

func main() {
	var config LoadTestConfig

	flag.StringVar(&config.URL, "url", "http://localhost:8000/convert", "Target URL to test")
	flag.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flag.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.Float64Var(&config.Amount, "amount", 100, "Amount to convert")
	flag.StringVar(&config.FromCurrency, "from", "USD", "Source currency code")
	flag.StringVar(&config.ToCurrency, "to", "EUR", "Target currency code")
	flag.Parse()

	fmt.Printf("Starting load test...\n")
	fmt.Printf("URL: %s\n", config.URL)
	fmt.Printf("Concurrent Users: %d\n", config.ConcurrentUsers)
	fmt.Printf("Requests per User: %d\n", config.RequestsPerUser)
	fmt.Printf("Conversion: %g %s -> %s\n", config.Amount, config.FromCurrency, config.ToCurrency)
	fmt.Println()

	summary := runLoadTest(config)
	printSummary(summary)
}

func runLoadTest(config LoadTestConfig) LoadTestSummary {
	client := &http.Client{
		Timeout: config.Timeout,
	}

	requestBody, _ := json.Marshal(map[string]interface{}{
		"amount":        config.Amount,
		"from_currency": config.FromCurrency,
		"to_currency":   config.ToCurrency,
	})

	totalRequests := config.ConcurrentUsers * config.RequestsPerUser
	results := make([]LoadTestResult, 0, totalRequests)
	var resultsMutex sync.Mutex

	startTime := time.Now()

	// One worker per request, bounded to the configured concurrency
	group, groupContext := errgroup.WithContext(context.Background())
	group.SetLimit(config.ConcurrentUsers)

	for requestIndex := 0; requestIndex < totalRequests; requestIndex++ {
		group.Go(func() error {
			result := makeRequest(groupContext, client, config.URL, requestBody)

			resultsMutex.Lock()
			results = append(results, result)
			resultsMutex.Unlock()

			return nil
		})
	}

	_ = group.Wait()
	totalDuration := time.Since(startTime)

	return summarize(results, totalDuration)
}

func makeRequest(requestContext context.Context, client *http.Client, url string, body []byte) LoadTestResult {
	requestStart := time.Now()

	request, requestError := http.NewRequestWithContext(requestContext, http.MethodPost, url, bytes.NewReader(body))
	if requestError != nil {
		return LoadTestResult{Error: requestError, Duration: time.Since(requestStart)}
	}
	request.Header.Set("Content-Type", "application/json")

	response, responseError := client.Do(request)
	if responseError != nil {
		return LoadTestResult{Error: responseError, Duration: time.Since(requestStart)}
	}
	defer response.Body.Close()

	return LoadTestResult{
		StatusCode: response.StatusCode,
		Duration:   time.Since(requestStart),
		Success:    response.StatusCode == http.StatusOK,
	}
}

func summarize(results []LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{
		TotalRequests: len(results),
		TotalDuration: totalDuration,
	}
	if len(results) == 0 {
		return summary
	}

	durations := make([]time.Duration, 0, len(results))
	var durationSum time.Duration

	summary.MinResponseTime = results[0].Duration
	for _, result := range results {
		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}

		durations = append(durations, result.Duration)
		durationSum += result.Duration

		if result.Duration < summary.MinResponseTime {
			summary.MinResponseTime = result.Duration
		}
		if result.Duration > summary.MaxResponseTime {
			summary.MaxResponseTime = result.Duration
		}
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	summary.AverageResponseTime = durationSum / time.Duration(len(results))
	summary.RequestsPerSecond = float64(len(results)) / totalDuration.Seconds()
	summary.ErrorRate = float64(summary.FailedRequests) / float64(len(results)) * 100
	summary.ResponseTime95th = durations[percentileIndex(len(durations), 95)]
	summary.ResponseTime99th = durations[percentileIndex(len(durations), 99)]

	return summary
}

func percentileIndex(count, percentile int) int {
	index := count*percentile/100 - 1
	if index < 0 {
		index = 0
	}
	return index
}

func printSummary(summary LoadTestSummary) {
	fmt.Println("Load test complete.")
	fmt.Printf("Total Requests: %d\n", summary.TotalRequests)
	fmt.Printf("Successful: %d\n", summary.SuccessfulRequests)
	fmt.Printf("Failed: %d\n", summary.FailedRequests)
	fmt.Printf("Total Duration: %v\n", summary.TotalDuration)
	fmt.Printf("Requests/sec: %.2f\n", summary.RequestsPerSecond)
	fmt.Printf("Error Rate: %.2f%%\n", summary.ErrorRate)
	fmt.Printf("Response Times: min=%v avg=%v max=%v p95=%v p99=%v\n",
		summary.MinResponseTime,
		summary.AverageResponseTime,
		summary.MaxResponseTime,
		summary.ResponseTime95th,
		summary.ResponseTime99th,
	)
}
