package middleware

import (
	"strconv"
	"time"

	"forex-converter-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the context key under which the request ID is stored
const RequestIDKey = "request_id"

// observedWriter wraps the response writer so timing and correlation
// headers are stamped just before the first byte of the response goes out
type observedWriter struct {
	gin.ResponseWriter
	startTime time.Time
	requestID string
	stamped   bool
}

func (writer *observedWriter) stampHeaders() {
	if writer.stamped || writer.Written() {
		return
	}
	writer.stamped = true

	elapsedSeconds := time.Since(writer.startTime).Seconds()
	header := writer.Header()
	header.Set("X-Process-Time", strconv.FormatFloat(elapsedSeconds, 'f', -1, 64))
	header.Set("X-Request-ID", writer.requestID)
	header.Set("X-Trace-ID", writer.requestID)
}

func (writer *observedWriter) WriteHeader(statusCode int) {
	writer.stampHeaders()
	writer.ResponseWriter.WriteHeader(statusCode)
}

func (writer *observedWriter) Write(data []byte) (int, error) {
	writer.stampHeaders()
	return writer.ResponseWriter.Write(data)
}

func (writer *observedWriter) WriteString(value string) (int, error) {
	writer.stampHeaders()
	return writer.ResponseWriter.WriteString(value)
}

// Observability wraps every request with a fresh request ID, records the
// request counter and latency histogram, and emits one access log line.
// The post steps always run, whatever status the handler chain produced.
func Observability(logger *logrus.Logger, serviceMetrics *metrics.Metrics) gin.HandlerFunc {
	return func(context *gin.Context) {
		startTime := time.Now()
		requestID := uuid.NewString()
		context.Set(RequestIDKey, requestID)

		writer := &observedWriter{
			ResponseWriter: context.Writer,
			startTime:      startTime,
			requestID:      requestID,
		}
		context.Writer = writer

		context.Next()

		elapsed := time.Since(startTime)
		method := context.Request.Method
		endpoint := context.FullPath()
		if endpoint == "" {
			// Unmatched routes have no template; fall back to the raw path
			endpoint = context.Request.URL.Path
		}
		statusCode := context.Writer.Status()

		serviceMetrics.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
		serviceMetrics.HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()

		logger.WithFields(logrus.Fields{
			"method":     method,
			"path":       context.Request.URL.Path,
			"status":     statusCode,
			"duration":   elapsed.String(),
			"request_id": requestID,
			"client_ip":  context.ClientIP(),
		}).Info("HTTP Request")
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("X-Content-Type-Options", "nosniff")
		context.Header("X-Frame-Options", "DENY")
		context.Header("X-XSS-Protection", "1; mode=block")
		context.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		context.Next()
	}
}
