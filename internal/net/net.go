package net

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/net/config"
	"url-monitor/internal/telemetry"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultMaxBodyBytes = 10 << 20

type ProbeResult = config.ProbeResult

type NetworkConfig config.NetworkConfig

// Prober issues single GET requests and records latency metrics.
type Prober struct {
	FollowRedirects bool
	SkipSSL         bool
	MaxBodyBytes    int64
	Meters          *telemetry.Meters
}

func NewProber(meters *telemetry.Meters) *Prober {
	return &Prober{
		FollowRedirects: true,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		Meters:          meters,
	}
}

// Probe performs one GET against rawURL. Any HTTP status is a successful
// probe; only transport failures return an error.
func (p *Prober) Probe(ctx context.Context, rawURL string, timeout time.Duration) (*ProbeResult, error) {
	nc := &NetworkConfig{
		URL:             rawURL,
		Timeout:         timeout,
		FollowRedirects: p.FollowRedirects,
		SkipSSL:         p.SkipSSL,
		MaxBodyBytes:    p.MaxBodyBytes,
	}

	result, err := nc.CheckWebsite(ctx)

	if p.Meters != nil {
		if err != nil {
			p.Meters.ProbeFailures.Add(ctx, 1, telemetry.WithAttrs(
				attribute.String("kind", string(failure.Transport)),
				attribute.Bool("timeout", failure.IsTimeout(err)),
			))
		} else {
			attrs := telemetry.WithAttrs(attribute.Int("http.status_code", result.Status()))
			p.Meters.ProbeCount.Add(ctx, 1, attrs)
			p.Meters.ProbeDuration.Record(ctx, result.ElapsedMillis(), attrs)
		}
	}

	return result, err
}

func (nc *NetworkConfig) CheckWebsite(ctx context.Context) (*ProbeResult, error) {
	base := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: nc.SkipSSL || isIPAddress(nc.URL)},
	}

	client := &http.Client{
		Timeout:   nc.Timeout,
		Transport: otelhttp.NewTransport(base),
	}
	defer base.CloseIdleConnections()

	if !nc.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nc.URL, nil)
	if err != nil {
		return nil, failure.New(failure.Transport, "build request", nc.URL, err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, failure.New(failure.Transport, "request", nc.URL, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)

	limit := nc.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, failure.New(failure.Transport, "read body", nc.URL, err)
	}

	statusCode := resp.StatusCode

	return &ProbeResult{
		URL:        nc.URL,
		Timestamp:  start,
		StatusCode: &statusCode,
		Elapsed:    elapsed,
		Body:       ClassifyBody(body),
	}, nil
}

// ClassifyBody re-serializes a JSON body, or returns config.NotJSON.
func ClassifyBody(body []byte) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return config.NotJSON
	}

	out, err := json.Marshal(parsed)
	if err != nil {
		return config.NotJSON
	}

	return string(out)
}

func isIPAddress(host string) bool {
	u, err := url.Parse(host)
	if err != nil {
		return false
	}
	hostname := u.Hostname()

	return net.ParseIP(hostname) != nil
}
