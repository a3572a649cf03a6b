//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"forex-converter-api/internal/api"
	"forex-converter-api/internal/models"
	"forex-converter-api/internal/testutils"

	"github.com/gin-gonic/gin"
)

// IntegrationTestSuite provides shared setup for integration tests
type IntegrationTestSuite struct {
	server *httptest.Server
}

// NewIntegrationTestSuite creates a new integration test suite
func NewIntegrationTestSuite() *IntegrationTestSuite {
	serviceMetrics := testutils.MockMetrics()

	handlerConfig := api.HandlerConfig{
		Logger:        testutils.MockLogger(),
		Configuration: testutils.MockConfig(),
		Table:         testutils.MockTable(),
		Converter:     testutils.MockConverter(serviceMetrics),
		Metrics:       serviceMetrics,
		RateLimiter:   nil, // No rate limiter in tests
	}
	handlers := api.NewHandlers(handlerConfig)

	gin.SetMode(gin.TestMode)
	router := handlers.SetupRoutes()
	server := httptest.NewServer(router)

	return &IntegrationTestSuite{server: server}
}

// Close cleans up the test suite
func (suite *IntegrationTestSuite) Close() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *IntegrationTestSuite) postConversion(amount float64, fromCurrency, toCurrency string) (*http.Response, error) {
	requestBody, _ := json.Marshal(map[string]interface{}{
		"amount":        amount,
		"from_currency": fromCurrency,
		"to_currency":   toCurrency,
	})
	return http.Post(suite.server.URL+"/convert", "application/json", bytes.NewReader(requestBody))
}

// TestConcurrentConversions exercises the conversion endpoint under
// concurrent load and verifies the conversion counter afterwards
func TestConcurrentConversions(t *testing.T) {
	suite := NewIntegrationTestSuite()
	defer suite.Close()

	const concurrentClients = 20
	const requestsPerClient = 10

	var waitGroup sync.WaitGroup
	errorsChannel := make(chan error, concurrentClients*requestsPerClient)

	for client := 0; client < concurrentClients; client++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for request := 0; request < requestsPerClient; request++ {
				response, requestError := suite.postConversion(100, "USD", "EUR")
				if requestError != nil {
					errorsChannel <- requestError
					continue
				}
				if response.StatusCode != http.StatusOK {
					errorsChannel <- fmt.Errorf("status %d", response.StatusCode)
				}
				response.Body.Close()
			}
		}()
	}

	waitGroup.Wait()
	close(errorsChannel)

	for requestError := range errorsChannel {
		t.Errorf("concurrent conversion failed: %v", requestError)
	}

	// Every request succeeded exactly once, so the counter must match
	metricsResponse, metricsError := http.Get(suite.server.URL + "/metrics")
	if metricsError != nil {
		t.Fatalf("GET /metrics error = %v", metricsError)
	}
	defer metricsResponse.Body.Close()

	expositionBytes, _ := io.ReadAll(metricsResponse.Body)
	wantSample := fmt.Sprintf(`forex_conversions_total{from_currency="USD",to_currency="EUR"} %d`, concurrentClients*requestsPerClient)
	if !strings.Contains(string(expositionBytes), wantSample) {
		t.Errorf("exposition missing sample %q", wantSample)
	}
}

// TestConcurrentMixedTraffic hits every endpoint at once
func TestConcurrentMixedTraffic(t *testing.T) {
	suite := NewIntegrationTestSuite()
	defer suite.Close()

	paths := []string{"/health", "/", "/currencies", "/metrics"}

	var waitGroup sync.WaitGroup
	for worker := 0; worker < 10; worker++ {
		waitGroup.Add(1)
		go func(workerIndex int) {
			defer waitGroup.Done()
			for request := 0; request < 20; request++ {
				path := paths[(workerIndex+request)%len(paths)]
				response, requestError := http.Get(suite.server.URL + path)
				if requestError != nil {
					t.Errorf("GET %s error = %v", path, requestError)
					continue
				}
				if response.StatusCode != http.StatusOK {
					t.Errorf("GET %s status = %d", path, response.StatusCode)
				}
				response.Body.Close()
			}
		}(worker)
	}
	waitGroup.Wait()
}

// TestUptimeMonotonicAcrossRequests verifies uptime never goes backwards
func TestUptimeMonotonicAcrossRequests(t *testing.T) {
	suite := NewIntegrationTestSuite()
	defer suite.Close()

	var previousUptime float64
	for i := 0; i < 5; i++ {
		response, requestError := http.Get(suite.server.URL + "/health")
		if requestError != nil {
			t.Fatalf("GET /health error = %v", requestError)
		}

		var healthCheck models.HealthCheck
		decodeError := json.NewDecoder(response.Body).Decode(&healthCheck)
		response.Body.Close()
		if decodeError != nil {
			t.Fatalf("decode error = %v", decodeError)
		}

		if healthCheck.UptimeSeconds < previousUptime {
			t.Fatalf("uptime decreased: %v -> %v", previousUptime, healthCheck.UptimeSeconds)
		}
		previousUptime = healthCheck.UptimeSeconds
	}
}

// TestConversionRejectionsUnderLoad mixes valid and invalid conversions and
// checks that only the valid ones are counted
func TestConversionRejectionsUnderLoad(t *testing.T) {
	suite := NewIntegrationTestSuite()
	defer suite.Close()

	const validRequests = 25
	const invalidRequests = 25

	var waitGroup sync.WaitGroup
	for i := 0; i < validRequests; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			response, requestError := suite.postConversion(50, "GBP", "JPY")
			if requestError == nil {
				response.Body.Close()
			}
		}()
	}
	for i := 0; i < invalidRequests; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			response, requestError := suite.postConversion(50, "XXX", "JPY")
			if requestError == nil {
				response.Body.Close()
			}
		}()
	}
	waitGroup.Wait()

	metricsResponse, metricsError := http.Get(suite.server.URL + "/metrics")
	if metricsError != nil {
		t.Fatalf("GET /metrics error = %v", metricsError)
	}
	defer metricsResponse.Body.Close()

	expositionBytes, _ := io.ReadAll(metricsResponse.Body)
	exposition := string(expositionBytes)

	wantSample := fmt.Sprintf(`forex_conversions_total{from_currency="GBP",to_currency="JPY"} %d`, validRequests)
	if !strings.Contains(exposition, wantSample) {
		t.Errorf("exposition missing sample %q", wantSample)
	}
	if strings.Contains(exposition, `from_currency="XXX"`) {
		t.Error("rejected conversions must not be counted")
	}
}
