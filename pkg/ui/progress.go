package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// PhaseTracker counts completed items of one pipeline phase.
// It is safe for concurrent use by pool workers.
type PhaseTracker struct {
	mu        sync.Mutex
	name      string
	total     int
	succeeded int
	failed    int
	startTime time.Time
	printer   *Printer
}

// NewPhaseTracker starts tracking a phase of total items. A nil printer
// disables the live progress line.
func NewPhaseTracker(name string, total int, printer *Printer) *PhaseTracker {
	return &PhaseTracker{
		name:      name,
		total:     total,
		startTime: time.Now(),
		printer:   printer,
	}
}

// Record counts one finished item
func (pt *PhaseTracker) Record(ok bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if ok {
		pt.succeeded++
	} else {
		pt.failed++
	}

	if pt.printer == nil {
		return
	}
	pt.printer.mu.Lock()
	defer pt.printer.mu.Unlock()
	if pt.printer.quiet {
		return
	}
	fmt.Fprintf(pt.printer.out, "\r%s", pt.progressLine())
	if pt.succeeded+pt.failed == pt.total {
		fmt.Fprintln(pt.printer.out)
	}
}

// Counts returns the succeeded and failed counts so far
func (pt *PhaseTracker) Counts() (succeeded, failed int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.succeeded, pt.failed
}

// Elapsed returns the time since the phase started
func (pt *PhaseTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// GetProgressBar returns a formatted progress bar
func (pt *PhaseTracker) GetProgressBar() string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.bar()
}

func (pt *PhaseTracker) bar() string {
	const width = 20
	done := pt.succeeded + pt.failed
	filled := width
	if pt.total > 0 {
		filled = done * width / pt.total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, done, pt.total)
}

func (pt *PhaseTracker) progressLine() string {
	line := fmt.Sprintf("%s %s", Green("["+strings.ToUpper(pt.name)+"]"), pt.bar())
	if pt.failed > 0 {
		line += " " + Red(fmt.Sprintf("failed: %d", pt.failed))
	}
	return line
}
