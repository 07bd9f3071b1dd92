package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/mattn/go-isatty"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	warning = color.New(color.FgYellow)
	muted   = color.New(color.Faint)
)

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var _ recolor.Observer = (*Progress)(nil)

// Progress prints one line per finished icon.
type Progress struct {
	mu sync.Mutex
	w  io.Writer
}

func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

func (p *Progress) OnStart(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	muted.Fprintf(p.w, "recoloring %d icon(s)\n", total)
}

func (p *Progress) OnFileDone(idx, total int, res recolor.FileResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	step := muted.Sprintf("[%d/%d]", idx, total)
	switch res.Status {
	case recolor.StatusFailed:
		fmt.Fprintf(p.w, "%s %s %s: %s\n", step, failure.Sprint("✗"), res.Name, res.Error)
	case recolor.StatusPlanned:
		fmt.Fprintf(p.w, "%s %s %s -> %s\n", step, warning.Sprint("~"), res.Src, res.Dst)
	default:
		fmt.Fprintf(p.w, "%s %s %s -> %s\n", step, success.Sprint("✓"), res.Src, res.Dst)
	}
}

// Summary prints the final counts of a batch.
func Summary(w io.Writer, rr recolor.Report) {
	s := rr.Summary
	line := fmt.Sprintf("done: total=%d converted=%d planned=%d failed=%d", s.Total, s.Converted, s.Planned, s.Failed)
	if s.Failed > 0 {
		failure.Fprintln(w, line)
		return
	}
	success.Fprintln(w, line)
}

// JSON writes v as a single JSON document.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Verify(w io.Writer, vr recolor.VerifyReport) {
	for _, n := range vr.Missing {
		failure.Fprintf(w, "missing: %s\n", n)
	}
	for _, n := range vr.Extra {
		warning.Fprintf(w, "extra: %s\n", n)
	}
	for _, n := range vr.Skipped {
		muted.Fprintf(w, "skipped: %s (no <svg> root tag)\n", n)
	}
	for _, m := range vr.Mismatches {
		failure.Fprintf(w, "%s: %s\n", m.Name, m.Reason)
	}
	if vr.OK() {
		success.Fprintf(w, "ok: %d icon(s) checked\n", vr.Checked)
		return
	}
	fmt.Fprintf(w, "checked=%d missing=%d extra=%d mismatched=%d\n",
		vr.Checked, len(vr.Missing), len(vr.Extra), len(vr.Mismatches))
}

func Errorf(format string, args ...any) {
	failure.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}
