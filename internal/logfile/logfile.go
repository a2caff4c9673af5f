package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/models"
)

const (
	DefaultPath    = "results.txt"
	DefaultMaxSize = 10 * 1000 * 1000

	dateLayout = "2006-01-02"
)

var Header = []string{
	"Data Hora",
	"URL",
	"Endereço IP",
	"Código de Status",
	"Tempo de Resposta",
	"Tempo de Resposta Médio",
}

// Writer appends CSV records to the active log file and rotates it.
// It assumes a single writer and reopens the file on every call.
type Writer struct {
	Base    string
	MaxSize int64

	active string
}

func NewWriter(base string, maxSize int64) (*Writer, error) {
	if base == "" {
		base = DefaultPath
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	w := &Writer{Base: base, MaxSize: maxSize, active: base}

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, failure.New(failure.LogIO, "create directory", dir, err)
		}
	}

	if err := EnsureHeader(base); err != nil {
		return nil, err
	}

	// Resume on the newest rotated file so a restart keeps appending where
	// the previous run stopped.
	dated, err := DatedFiles(base)
	if err != nil {
		return nil, failure.New(failure.LogIO, "list", base, err)
	}
	if len(dated) > 0 {
		w.active = dated[len(dated)-1]
	}

	return w, nil
}

// Path returns the file records are currently appended to.
func (w *Writer) Path() string {
	return w.active
}

// EnsureHeader creates path with the header row if it does not exist yet.
func EnsureHeader(path string) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return failure.New(failure.LogIO, "create", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = failure.New(failure.LogIO, "close", path, cerr)
		}
	}()

	if err := writeRow(file, Header); err != nil {
		return failure.New(failure.LogIO, "write header", path, err)
	}

	return nil
}

func (w *Writer) Append(record models.LogRecord) error {
	if err := EnsureHeader(w.active); err != nil {
		return err
	}
	return appendRow(w.active, record.Fields())
}

func appendRow(path string, fields []string) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return failure.New(failure.LogIO, "open", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = failure.New(failure.LogIO, "close", path, cerr)
		}
	}()

	if err := writeRow(file, fields); err != nil {
		return failure.New(failure.LogIO, "append", path, err)
	}

	return nil
}

func writeRow(out io.Writer, fields []string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(fields); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Rotation describes a switch to a fresh dated file.
type Rotation struct {
	From    string
	To      string
	Size    int64
	Reason  string
	Renamed []Rename
}

// Rename is a dated sibling moved to the <stem>_<YYYY-MM-DD>[_n]<ext> scheme.
type Rename struct {
	From string
	To   string
}

// RotateIfNeeded switches to a fresh dated file when the active file grew
// past MaxSize, or at hour 0 when the active file is not yet today's.
// The previous file is left as is; other dated siblings are renamed to the
// normalized scheme. It returns nil when no rotation happened.
func (w *Writer) RotateIfNeeded(now time.Time) (*Rotation, error) {
	info, err := os.Stat(w.active)
	if err != nil {
		return nil, failure.New(failure.LogIO, "stat", w.active, err)
	}

	bySize := info.Size() > w.MaxSize
	byDay := now.Hour() == 0 && !w.isDatedFor(now)
	if !bySize && !byDay {
		return nil, nil
	}

	next, err := w.datedPath(now)
	if err != nil {
		return nil, err
	}

	if err := EnsureHeader(next); err != nil {
		return nil, err
	}

	rotation := &Rotation{
		From:   w.active,
		To:     next,
		Size:   info.Size(),
		Reason: "size",
	}
	if !bySize {
		rotation.Reason = "day"
	}

	w.active = next

	rotation.Renamed, err = w.normalizeSiblings(rotation.From, rotation.To)
	if err != nil {
		return rotation, err
	}

	return rotation, nil
}

func (w *Writer) stem() (string, string) {
	ext := filepath.Ext(w.Base)
	return strings.TrimSuffix(w.Base, ext), ext
}

func (w *Writer) isDatedFor(now time.Time) bool {
	stem, _ := w.stem()
	return strings.HasPrefix(w.active, stem+"_"+now.Format(dateLayout))
}

// datedPath returns <stem>_<date><ext>, or <stem>_<date>_<n><ext> when
// that name is taken.
func (w *Writer) datedPath(day time.Time) (string, error) {
	stem, ext := w.stem()
	dated := stem + "_" + day.Format(dateLayout)

	candidate := dated + ext
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", failure.New(failure.LogIO, "stat", candidate, err)
		}
		candidate = dated + "_" + strconv.Itoa(n) + ext
	}
}

// siblingLayouts are the other date spellings recognized in rotated file
// names.
var siblingLayouts = []string{
	"20060102",
	"2006_01_02",
	"2006.01.02",
	"02-01-2006",
}

// normalizeSiblings renames dated siblings of Base that do not follow the
// <stem>_<YYYY-MM-DD>[_n]<ext> scheme. Paths in skip are never touched.
func (w *Writer) normalizeSiblings(skip ...string) ([]Rename, error) {
	stem, ext := w.stem()

	matches, err := filepath.Glob(stem + "_*" + ext)
	if err != nil {
		return nil, failure.New(failure.LogIO, "list", stem, err)
	}

	var renamed []Rename
	for _, m := range matches {
		if slices.Contains(skip, m) {
			continue
		}
		if _, _, ok := parseDated(stem, ext, m); ok {
			continue
		}

		day, ok := parseSiblingDate(strings.TrimSuffix(strings.TrimPrefix(m, stem+"_"), ext))
		if !ok {
			continue
		}

		target, err := w.datedPath(day)
		if err != nil {
			return renamed, err
		}
		if err := os.Rename(m, target); err != nil {
			return renamed, failure.New(failure.LogIO, "rename", m, err)
		}
		renamed = append(renamed, Rename{From: m, To: target})
	}

	return renamed, nil
}

func parseSiblingDate(rest string) (time.Time, bool) {
	for _, layout := range siblingLayouts {
		if len(rest) < len(layout) {
			continue
		}
		day, err := time.Parse(layout, rest[:len(layout)])
		if err != nil {
			continue
		}
		if _, ok := parseCounter(rest[len(layout):]); ok {
			return day, true
		}
	}
	return time.Time{}, false
}

// parseDated splits <stem>_<YYYY-MM-DD>[_n]<ext> into its date and counter.
func parseDated(stem, ext, path string) (string, int, bool) {
	if !strings.HasPrefix(path, stem+"_") || !strings.HasSuffix(path, ext) {
		return "", 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(path, stem+"_"), ext)
	if len(rest) < len(dateLayout) {
		return "", 0, false
	}

	day := rest[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, day); err != nil {
		return "", 0, false
	}

	n, ok := parseCounter(rest[len(dateLayout):])
	if !ok {
		return "", 0, false
	}
	return day, n, true
}

// parseCounter accepts "" as 0 or "_<n>".
func parseCounter(suffix string) (int, bool) {
	if suffix == "" {
		return 0, true
	}
	digits, found := strings.CutPrefix(suffix, "_")
	if !found || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// DatedFiles lists the rotated siblings of base, oldest first.
func DatedFiles(base string) ([]string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	matches, err := filepath.Glob(stem + "_*" + ext)
	if err != nil {
		return nil, fmt.Errorf("list rotated files: %w", err)
	}

	type dated struct {
		path string
		day  string
		n    int
	}

	var found []dated
	for _, m := range matches {
		day, n, ok := parseDated(stem, ext, m)
		if !ok {
			continue
		}
		found = append(found, dated{path: m, day: day, n: n})
	}

	slices.SortFunc(found, func(a, b dated) int {
		if c := strings.Compare(a.day, b.day); c != 0 {
			return c
		}
		return a.n - b.n
	})

	files := make([]string, 0, len(found))
	for _, f := range found {
		files = append(files, f.path)
	}
	return files, nil
}

// Files lists base followed by its rotated siblings, in write order.
func Files(base string) ([]string, error) {
	dated, err := DatedFiles(base)
	if err != nil {
		return nil, err
	}
	return append([]string{base}, dated...), nil
}
