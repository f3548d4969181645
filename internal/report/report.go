package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const EmptyMessage = "No results found. Try different keywords or reduce the number of results."

// Reporter prints the user-facing outcome of a run. Logs go elsewhere.
type Reporter struct {
	w       io.Writer
	warn    *color.Color
	fail    *color.Color
	success *color.Color
	info    *color.Color
}

func New(w io.Writer) *Reporter {
	return &Reporter{
		w:       w,
		warn:    color.New(color.FgYellow, color.Bold),
		fail:    color.New(color.FgRed),
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgCyan),
	}
}

// Warning is shown when input validation stops a run before any search.
func (r *Reporter) Warning(msg string) {
	r.warn.Fprintln(r.w, "⚠ "+msg)
}

// QueryError names the query that failed; the run carries on.
func (r *Reporter) QueryError(query string, err error) {
	r.fail.Fprintf(r.w, "✖ Search failed for %q: %v\n", query, err)
}

func (r *Reporter) Success(n int) {
	r.success.Fprintf(r.w, "✅ Found %d results.\n", n)
}

// Empty is the informational outcome of a run with no leads.
func (r *Reporter) Empty() {
	r.info.Fprintln(r.w, EmptyMessage)
}

func (r *Reporter) Info(format string, args ...any) {
	r.info.Fprintln(r.w, fmt.Sprintf(format, args...))
}
