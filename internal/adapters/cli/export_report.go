package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/3-lines-studio/postpage/internal/clock"
)

type colorizer interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

// ExportReport summarizes one export run: where the files went, which listed
// slugs had no post behind them and what stopped the run, if anything.
type ExportReport struct {
	colors   colorizer
	out      io.Writer
	errOut   io.Writer
	clock    clock.Clock
	started  time.Time
	location string
	written  []string
	missing  []string
	failure  error
}

func NewExportReport(colors colorizer, out, errOut io.Writer, c clock.Clock, location string) *ExportReport {
	return &ExportReport{
		colors:   colors,
		out:      out,
		errOut:   errOut,
		clock:    c,
		started:  c.Now(),
		location: location,
	}
}

func (r *ExportReport) AddWritten(keys ...string) {
	r.written = append(r.written, keys...)
}

// AddMissing records listed slugs the content API had no post for. Their
// pages are skipped and answer 404 once deployed.
func (r *ExportReport) AddMissing(slugs ...string) {
	r.missing = append(r.missing, slugs...)
}

func (r *ExportReport) Fail(err error) {
	if err != nil && r.failure == nil {
		r.failure = err
	}
}

func (r *ExportReport) Failed() bool {
	return r.failure != nil
}

func (r *ExportReport) Render() {
	duration := r.clock.Now().Sub(r.started)
	location := r.location
	if location == "" {
		location = "the output"
	}

	if r.failure != nil {
		fmt.Fprintf(r.errOut, "  "+r.colors.Red("✗ ")+"Export to %s failed after %s: %v\n", location, formatDuration(duration), r.failure)
		if len(r.written) > 0 {
			fmt.Fprintf(r.out, "  %s\n", r.colors.Gray(fmt.Sprintf("%d file(s) were written before the failure", len(r.written))))
		}
	} else {
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"%d file(s) exported to %s\n", len(r.written), location)
	}

	if len(r.missing) > 0 {
		fmt.Fprintf(r.out, "  "+r.colors.Yellow("⚠ ")+"No post for %d listed slug(s):\n", len(r.missing))
		for _, slug := range deduplicateStrings(r.missing) {
			fmt.Fprintf(r.out, "      • %s\n", slug)
		}
	}

	if r.failure == nil {
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"Export complete in %s\n", formatDuration(duration))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings keeps first-seen order and folds repeats into a count.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	seen := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] == 0 {
			order = append(order, item)
		}
		seen[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if count := seen[item]; count > 1 {
			result = append(result, fmt.Sprintf("%s (listed %d times)", item, count))
		} else {
			result = append(result, item)
		}
	}

	return result
}
