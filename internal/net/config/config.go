package config

import (
	"time"
)

// NotJSON is the body classification for responses that do not parse as JSON.
const NotJSON = "not valid JSON"

type NetworkConfig struct {
	URL             string        // URL to probe
	Timeout         time.Duration // HTTP request timeout
	FollowRedirects bool          // Whether to follow HTTP redirects
	SkipSSL         bool          // Whether to skip SSL certificate verification
	MaxBodyBytes    int64         // Upper bound on the body read for classification
}

type ProbeResult struct {
	URL        string
	Timestamp  time.Time
	StatusCode *int
	Elapsed    time.Duration
	Body       string
}

// ElapsedMillis returns the elapsed time in milliseconds with sub-millisecond
// precision.
func (r *ProbeResult) ElapsedMillis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

func (r *ProbeResult) Status() int {
	if r.StatusCode == nil {
		return 0
	}
	return *r.StatusCode
}

func (r *ProbeResult) IsJSON() bool {
	return r.Body != NotJSON
}
