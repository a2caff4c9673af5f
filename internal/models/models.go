package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// TimeLayout is the datetime format of the first log column.
	TimeLayout = "2006-01-02 15:04:05"

	DefaultHistoryWindow = 120
)

// Target is the URL being monitored and the address its host resolved to.
type Target struct {
	URL  string `json:"url"`
	Host string `json:"host"`
	IP   string `json:"ip"`
}

func (t Target) IsResolved() bool {
	return t.IP != ""
}

// LogRecord is one row of the CSV log.
type LogRecord struct {
	Time                time.Time `json:"time"`
	URL                 string    `json:"url"`
	IP                  string    `json:"ip"`
	StatusCode          int       `json:"status_code"`
	ResponseTime        float64   `json:"response_time"`         // in milliseconds
	AverageResponseTime float64   `json:"average_response_time"` // in milliseconds
}

func (r LogRecord) Fields() []string {
	return []string{
		r.Time.Format(TimeLayout),
		r.URL,
		r.IP,
		strconv.Itoa(r.StatusCode),
		FormatMillis(r.ResponseTime),
		FormatMillis(r.AverageResponseTime),
	}
}

// ParseLogRecord is the inverse of Fields. The datetime column carries no
// zone, so it is read back in loc.
func ParseLogRecord(fields []string, loc *time.Location) (LogRecord, error) {
	if len(fields) != 6 {
		return LogRecord{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	ts, err := time.ParseInLocation(TimeLayout, fields[0], loc)
	if err != nil {
		return LogRecord{}, fmt.Errorf("invalid datetime %q: %w", fields[0], err)
	}

	status, err := strconv.Atoi(fields[3])
	if err != nil {
		return LogRecord{}, fmt.Errorf("invalid status code %q: %w", fields[3], err)
	}

	responseTime, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return LogRecord{}, fmt.Errorf("invalid response time %q: %w", fields[4], err)
	}

	average, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return LogRecord{}, fmt.Errorf("invalid average response time %q: %w", fields[5], err)
	}

	return LogRecord{
		Time:                ts,
		URL:                 fields[1],
		IP:                  fields[2],
		StatusCode:          status,
		ResponseTime:        responseTime,
		AverageResponseTime: average,
	}, nil
}

// FormatMillis renders a millisecond value with three decimals.
func FormatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 3, 64)
}

// RoundMillis returns ms as displayed by FormatMillis, so charted and
// averaged readings match the printed ones.
func RoundMillis(ms float64) float64 {
	rounded, err := strconv.ParseFloat(FormatMillis(ms), 64)
	if err != nil {
		return ms
	}
	return rounded
}

// RunState accumulates readings for the lifetime of the process. It is
// passed by value; Record returns the updated state.
type RunState struct {
	Iteration         int
	TotalResponseTime float64
	History           []float64

	// Window bounds History to the most recent readings. Zero keeps all.
	Window int
}

func NewRunState(window int) RunState {
	return RunState{Window: window}
}

func (s RunState) Record(ms float64) RunState {
	history := make([]float64, 0, len(s.History)+1)
	history = append(history, s.History...)
	history = append(history, ms)
	if s.Window > 0 && len(history) > s.Window {
		history = history[len(history)-s.Window:]
	}

	return RunState{
		Iteration:         s.Iteration + 1,
		TotalResponseTime: s.TotalResponseTime + ms,
		History:           history,
		Window:            s.Window,
	}
}

// Average is the mean of every recorded reading, not only the windowed
// history.
func (s RunState) Average() float64 {
	if s.Iteration == 0 {
		return 0
	}
	return s.TotalResponseTime / float64(s.Iteration)
}

// Report summarises a CSV log for the report command.
type Report struct {
	File                string      `json:"file"`
	URL                 string      `json:"url,omitempty"`
	Records             int         `json:"records"`
	MinResponseTime     float64     `json:"min_response_time"`
	MaxResponseTime     float64     `json:"max_response_time"`
	AverageResponseTime float64     `json:"average_response_time"`
	StatusCodes         map[int]int `json:"status_codes"`
	FirstCheck          *time.Time  `json:"first_check,omitempty"`
	LastCheck           *time.Time  `json:"last_check,omitempty"`
	Histories           []LogRecord `json:"histories,omitempty"`
}

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (r Response) Print() {
	data, err := json.Marshal(r)

	if err != nil {
		log.Error().Err(err).Msg("error serializing response")
		return
	}

	fmt.Println(string(data))
}
