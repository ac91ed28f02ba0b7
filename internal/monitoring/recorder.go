package monitoring

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records a completed request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOrderCreated counts a persisted order.
func RecordOrderCreated() {
	ordersCreatedTotal.Inc()
}

// RecordAuthAttempt counts a register or login attempt.
func RecordAuthAttempt(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(operation, result).Inc()
}
