package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/helper"
	"url-monitor/internal/histogram"
	"url-monitor/internal/logfile"
	"url-monitor/internal/models"
	"url-monitor/internal/net"
	"url-monitor/internal/telemetry"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnterURL      = "Enter the URL or API to check: "
	EnterTimeout  = "Request timeout in seconds: "
	EnterInterval = "Seconds between requests: "
	InvalidHost   = "Invalid host. Please enter a new host."
	RequestError  = "Error requesting the URL. Please enter a new URL."
	SaveSuccess   = "Saved to:"
)

type State int

const (
	AwaitingTarget State = iota
	Monitoring
)

func (s State) String() string {
	switch s {
	case AwaitingTarget:
		return "awaiting_target"
	case Monitoring:
		return "monitoring"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Prompter interface {
	Prompt(ctx context.Context, question string) (string, error)
}

type Resolver interface {
	Resolve(ctx context.Context, raw string) (models.Target, error)
}

type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) (*net.ProbeResult, error)
}

type RecordWriter interface {
	Append(record models.LogRecord) error
	RotateIfNeeded(now time.Time) (*logfile.Rotation, error)
	Path() string
}

// Waiter blocks for d or until ctx is done.
type Waiter func(ctx context.Context, d time.Duration) error

// Options seed the loop. Zero Timeout or Interval are asked for once the
// first target resolves; an empty URL is asked for immediately.
type Options struct {
	URL           string
	Timeout       time.Duration
	Interval      time.Duration
	HistoryWindow int
}

type Config struct {
	Resolver Resolver
	Prober   Prober
	Writer   RecordWriter
	Prompter Prompter
	Out      io.Writer
	Wait     Waiter
	Now      func() time.Time
	Meters   *telemetry.Meters
	Logger   *zerolog.Logger
}

// UptimeMonitor runs the probe loop against one target at a time.
type UptimeMonitor struct {
	cfg     Config
	opts    Options
	logger  zerolog.Logger
	state   State
	target  models.Target
	run     models.RunState
	pending string
}

func NewUptimeMonitor(cfg Config, opts Options) (*UptimeMonitor, error) {
	if cfg.Resolver == nil || cfg.Prober == nil || cfg.Writer == nil || cfg.Prompter == nil {
		return nil, failure.New(failure.Configuration, "new monitor", "", errors.New("resolver, prober, writer and prompter are required"))
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Wait == nil {
		cfg.Wait = Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("session", helper.GenerateRandomID()).Logger()

	return &UptimeMonitor{
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		state:   AwaitingTarget,
		run:     models.NewRunState(opts.HistoryWindow),
		pending: opts.URL,
	}, nil
}

func (m *UptimeMonitor) State() State {
	return m.state
}

func (m *UptimeMonitor) Target() models.Target {
	return m.target
}

func (m *UptimeMonitor) RunState() models.RunState {
	return m.run
}

// Run drives the state machine until ctx is cancelled (nil) or an
// unrecoverable input or log failure occurs.
func (m *UptimeMonitor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			m.logger.Info().Int("iterations", m.run.Iteration).Msg("monitoring stopped")
			return nil
		}

		var err error
		switch m.state {
		case AwaitingTarget:
			err = m.awaitTarget(ctx)
		case Monitoring:
			err = m.probeOnce(ctx)
		}

		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}
	}
}

func (m *UptimeMonitor) awaitTarget(ctx context.Context) error {
	for {
		raw := m.pending
		m.pending = ""
		if raw == "" {
			answer, err := m.ask(ctx, EnterURL)
			if err != nil {
				return err
			}
			raw = answer
		}

		target, err := m.cfg.Resolver.Resolve(ctx, raw)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn().Err(err).Str("input", raw).Msg("host resolution failed")
			fmt.Fprintln(m.cfg.Out, InvalidHost)
			continue
		}

		m.target = target
		break
	}

	if m.opts.Timeout <= 0 {
		timeout, err := m.askDuration(ctx, EnterTimeout)
		if err != nil {
			return err
		}
		m.opts.Timeout = timeout
	}

	if m.opts.Interval <= 0 {
		interval, err := m.askDuration(ctx, EnterInterval)
		if err != nil {
			return err
		}
		m.opts.Interval = interval
	}

	m.logger.Info().
		Str("url", m.target.URL).
		Str("ip", m.target.IP).
		Dur("timeout", m.opts.Timeout).
		Dur("interval", m.opts.Interval).
		Msg("monitoring target")

	m.state = Monitoring
	return nil
}

func (m *UptimeMonitor) probeOnce(ctx context.Context) error {
	result, err := m.cfg.Prober.Probe(ctx, m.target.URL, m.opts.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		m.logger.Error().
			Err(err).
			Str("url", m.target.URL).
			Bool("timeout", failure.IsTimeout(err)).
			Msg("probe failed")
		fmt.Fprintf(m.cfg.Out, "%s %s: %v\n", RequestError, m.target.URL, err)

		m.target = models.Target{}
		m.state = AwaitingTarget
		return nil
	}

	elapsed := models.RoundMillis(result.ElapsedMillis())
	m.run = m.run.Record(elapsed)
	now := m.cfg.Now()

	record := models.LogRecord{
		Time:                now,
		URL:                 m.target.URL,
		IP:                  m.target.IP,
		StatusCode:          result.Status(),
		ResponseTime:        elapsed,
		AverageResponseTime: m.run.Average(),
	}

	if err := histogram.Render(m.cfg.Out, m.run.Iteration, m.run.History); err != nil {
		m.logger.Warn().Err(err).Msg("failed to render chart")
	}
	m.printSummary(record, result.Body)

	saved := m.cfg.Writer.Path()
	if err := m.cfg.Writer.Append(record); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	rotation, err := m.cfg.Writer.RotateIfNeeded(now)
	if err != nil {
		return fmt.Errorf("failed to rotate log: %w", err)
	}
	if rotation != nil {
		m.logRotation(ctx, rotation)
	}

	fmt.Fprintf(m.cfg.Out, "%s %s\n\n", SaveSuccess, saved)

	m.logger.Debug().
		Str("url", record.URL).
		Int("status", record.StatusCode).
		Bool("json", result.IsJSON()).
		Time("requested_at", result.Timestamp).
		Str("response_time", models.FormatMillis(record.ResponseTime)).
		Msg("probe recorded")

	return m.cfg.Wait(ctx, m.opts.Interval)
}

func (m *UptimeMonitor) logRotation(ctx context.Context, rotation *logfile.Rotation) {
	m.logger.Info().
		Str("from", rotation.From).
		Str("to", rotation.To).
		Str("size", humanize.Bytes(uint64(rotation.Size))).
		Str("reason", rotation.Reason).
		Msg("log rotated")

	for _, r := range rotation.Renamed {
		m.logger.Info().Str("from", r.From).Str("to", r.To).Msg("rotated log renamed")
	}

	if m.cfg.Meters != nil {
		m.cfg.Meters.LogRotations.Add(ctx, 1)
	}
}

func (m *UptimeMonitor) printSummary(record models.LogRecord, body string) {
	out := m.cfg.Out

	fmt.Fprintln(out, "URL:", record.URL, "IP address:", record.IP, "Status code:", record.StatusCode)
	fmt.Fprintln(out, "JSON:", body)
	fmt.Fprintln(out, "Response time:", models.FormatMillis(record.ResponseTime), "ms",
		"Date:", record.Time.Format("2006-01-02"), "Time:", record.Time.Format("15:04:05"))
	fmt.Fprintf(out, "Average response time (over %d iterations): %s ms\n",
		m.run.Iteration, models.FormatMillis(record.AverageResponseTime))
}

func (m *UptimeMonitor) ask(ctx context.Context, question string) (string, error) {
	answer, err := m.cfg.Prompter.Prompt(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", failure.New(failure.Configuration, "read input", "", err)
	}
	return answer, nil
}

func (m *UptimeMonitor) askDuration(ctx context.Context, question string) (time.Duration, error) {
	for {
		answer, err := m.ask(ctx, question)
		if err != nil {
			return 0, err
		}

		d, err := helper.ParseSeconds(answer)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(m.cfg.Out, "Invalid value:", err)
	}
}
