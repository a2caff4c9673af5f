package benchmark

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"url-monitor/internal/histogram"
	"url-monitor/internal/logfile"
	"url-monitor/internal/models"
	"url-monitor/internal/monitor"
	"url-monitor/internal/net"

	"github.com/dustin/go-humanize"
)

// memStats holds memory statistics
type memStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	Mallocs      uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// getMemStats returns current memory statistics
func getMemStats() memStats {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return memStats{
		HeapAlloc:    stats.HeapAlloc,
		TotalAlloc:   stats.TotalAlloc,
		Mallocs:      stats.Mallocs,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
	}
}

func logMemStats(b *testing.B, before, after memStats) {
	b.Logf("Memory usage:")
	b.Logf("  Heap Alloc: %s -> %s", humanize.IBytes(before.HeapAlloc), humanize.IBytes(after.HeapAlloc))
	b.Logf("  Total Alloc: %s (+%s)", humanize.IBytes(after.TotalAlloc), humanize.IBytes(after.TotalAlloc-before.TotalAlloc))
	b.Logf("  Mallocs: +%d", after.Mallocs-before.Mallocs)
	b.Logf("  GC Runs: +%d, pause %v", after.NumGC-before.NumGC, time.Duration(after.PauseTotalNs-before.PauseTotalNs))
}

// createTestServer creates a test HTTP server that responds with specified status code
func createTestServer(statusCode int, responseDelay time.Duration) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(responseDelay)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
}

func randomReadings(n int) []float64 {
	rng := rand.New(rand.NewSource(42))
	readings := make([]float64, n)
	for i := range readings {
		readings[i] = 50 + rng.Float64()*950
	}
	return readings
}

func benchmarkRender(b *testing.B, count int) {
	readings := randomReadings(count)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := histogram.Render(io.Discard, count, readings); err != nil {
			b.Fatalf("Failed to render chart: %v", err)
		}
	}
}

func BenchmarkRender10Readings(b *testing.B) {
	benchmarkRender(b, 10)
}

func BenchmarkRender120Readings(b *testing.B) {
	benchmarkRender(b, models.DefaultHistoryWindow)
}

func BenchmarkRender1000Readings(b *testing.B) {
	benchmarkRender(b, 1000)
}

// BenchmarkAppend measures one CSV row per iteration, rotating every 64KiB.
func BenchmarkAppend(b *testing.B) {
	writer, err := logfile.NewWriter(filepath.Join(b.TempDir(), logfile.DefaultPath), 64*1024)
	if err != nil {
		b.Fatalf("Failed to create writer: %v", err)
	}

	record := models.LogRecord{
		Time:                time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local),
		URL:                 "https://example.com/health",
		IP:                  "93.184.216.34",
		StatusCode:          200,
		ResponseTime:        123.456,
		AverageResponseTime: 118.2,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writer.Append(record); err != nil {
			b.Fatalf("Failed to append: %v", err)
		}
		if _, err := writer.RotateIfNeeded(record.Time); err != nil {
			b.Fatalf("Failed to rotate: %v", err)
		}
	}
}

// benchmarkMonitor runs the full loop for a fixed number of probes
func benchmarkMonitor(b *testing.B, probes int, delay time.Duration) {
	server := createTestServer(http.StatusOK, delay)
	defer server.Close()

	beforeStats := getMemStats()
	startTime := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		writer, err := logfile.NewWriter(filepath.Join(b.TempDir(), logfile.DefaultPath), logfile.DefaultMaxSize)
		if err != nil {
			b.Fatalf("Failed to create writer: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		remaining := probes

		uptimeMonitor, err := monitor.NewUptimeMonitor(monitor.Config{
			Resolver: net.NewResolver(),
			Prober:   net.NewProber(nil),
			Writer:   writer,
			Prompter: monitor.NewConsolePrompter(strings.NewReader(""), io.Discard),
			Out:      io.Discard,
			Wait: func(ctx context.Context, d time.Duration) error {
				remaining--
				if remaining <= 0 {
					cancel()
				}
				return nil
			},
		}, monitor.Options{
			URL:           server.URL,
			Timeout:       time.Second,
			Interval:      time.Millisecond,
			HistoryWindow: models.DefaultHistoryWindow,
		})
		if err != nil {
			cancel()
			b.Fatalf("Failed to create monitor: %v", err)
		}

		if err := uptimeMonitor.Run(ctx); err != nil {
			cancel()
			b.Fatalf("Monitor failed: %v", err)
		}
		cancel()
	}
	b.StopTimer()

	afterStats := getMemStats()
	elapsedTime := time.Since(startTime)

	b.Logf("Benchmark for %d probes:", probes)
	b.Logf("Total elapsed time: %v", elapsedTime)
	b.Logf("Average time per probe: %v", elapsedTime/time.Duration(probes*b.N))
	logMemStats(b, beforeStats, afterStats)
}

func BenchmarkMonitor10Probes(b *testing.B) {
	benchmarkMonitor(b, 10, 0)
}

func BenchmarkMonitor100Probes(b *testing.B) {
	benchmarkMonitor(b, 100, 0)
}

func BenchmarkMonitorSlowServer(b *testing.B) {
	benchmarkMonitor(b, 10, 20*time.Millisecond)
}

