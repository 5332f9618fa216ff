// Package httpclient builds the HTTP clients used for upstream APIs.
package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every upstream request and response
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    *zap.Logger
	// Name identifies the upstream in log lines, e.g. "geocoding"
	Name string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if t.Logger == nil {
		return transport.RoundTrip(req)
	}

	t.Logger.Debug("upstream request",
		zap.String("api", t.Name),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Logger.Warn("upstream request failed",
			zap.String("api", t.Name),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	level := t.Logger.Debug
	if resp.StatusCode >= 400 {
		level = t.Logger.Warn
	}
	level("upstream response",
		zap.String("api", t.Name),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// New returns a client with the given timeout whose transport logs through logger
func New(name string, timeout time.Duration, logger *zap.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingRoundTripper{
			Transport: http.DefaultTransport,
			Logger:    logger,
			Name:      name,
		},
	}
}

// ErrorKind classifies a failed upstream call
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindBadRequest
	KindRateLimited
	KindUnavailable
	KindStatus
)

// KindForStatus maps an HTTP status code to an ErrorKind
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError:
		return KindUnavailable
	default:
		return KindStatus
	}
}

// NetworkErrorMessage is shown when no response was received at all
const NetworkErrorMessage = "Network error. Please check your internet connection."
