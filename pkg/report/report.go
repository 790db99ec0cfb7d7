// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rantoo/fleetctl/pkg/dispatch"
)

// process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	infoStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Reporter renders leveled, human-readable lines. Colors degrade to plain
// text automatically when the writer is not a terminal.
type Reporter struct {
	w io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Headerf(format string, v ...any) {
	fmt.Fprintln(r.w, headerStyle.Render(fmt.Sprintf(format, v...)))
}

func (r *Reporter) Infof(format string, v ...any) {
	fmt.Fprintln(r.w, infoStyle.Render(fmt.Sprintf(format, v...)))
}

func (r *Reporter) Successf(format string, v ...any) {
	fmt.Fprintln(r.w, successStyle.Render(fmt.Sprintf(format, v...)))
}

func (r *Reporter) Warnf(format string, v ...any) {
	fmt.Fprintln(r.w, warnStyle.Render(fmt.Sprintf(format, v...)))
}

func (r *Reporter) Errorf(format string, v ...any) {
	fmt.Fprintln(r.w, errorStyle.Render(fmt.Sprintf(format, v...)))
}

// Report prints one line per host naming its outcome explicitly, the
// captured output indented below it, and a summary with the worst case.
// The returned exit code is zero only when every host succeeded.
func (r *Reporter) Report(agg *dispatch.AggregateResult) int {
	r.Headerf("%s on group %q (%d hosts)", agg.Op, agg.Group, len(agg.Outcomes))

	for _, o := range agg.Outcomes {
		label := fmt.Sprintf("%s (%s)", o.Host.Name, o.Host.Address)
		elapsed := o.Elapsed.Round(time.Millisecond)
		if o.OK() {
			r.Successf("%s: ok (%s)", label, elapsed)
		} else {
			r.Errorf("%s: %s: %v (%s)", label, o.Status, o.Err, elapsed)
		}
		r.writeIndented(o.Output)
	}

	if agg.OK() {
		r.Successf("all %d hosts succeeded", len(agg.Outcomes))
		return ExitSuccess
	}
	r.Warnf("%d/%d hosts failed, worst outcome: %s", agg.Failed(), len(agg.Outcomes), agg.Worst())
	return ExitFailure
}

func (r *Reporter) writeIndented(output string) {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return
	}
	for _, line := range strings.Split(output, "\n") {
		r.Infof("    %s", line)
	}
}
