package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Printer writes user-facing status lines. Errors are printed even when quiet.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, quiet bool) *Printer {
	return &Printer{out: out, quiet: quiet}
}

var defaultPrinter = NewPrinter(os.Stdout, false)

// Default returns the package-level printer writing to stdout
func Default() *Printer {
	return defaultPrinter
}

// SetQuiet toggles quiet mode on the default printer
func SetQuiet(quiet bool) {
	defaultPrinter.mu.Lock()
	defaultPrinter.quiet = quiet
	defaultPrinter.mu.Unlock()
}

func (p *Printer) println(always bool, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet && !always {
		return
	}
	fmt.Fprintln(p.out, text)
}

// Step announces the start of a pipeline step, e.g. "Reading image ids..."
func (p *Printer) Step(msg string) {
	p.println(false, Magenta(msg))
}

// Info prints a label/value pair
func (p *Printer) Info(label, value string) {
	p.println(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// Elapsed prints the wall-clock time a network phase took
func (p *Printer) Elapsed(phase string, d time.Duration) {
	p.println(false, fmt.Sprintf("%s %s", Cyan(phase+" Time Elapsed:"), Yellow(FormatDuration(d))))
}

// Success prints a success message in green
func (p *Printer) Success(msg string) {
	p.println(false, Green(msg))
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	p.println(false, Yellow(msg))
}

// Error prints an error message in red
func (p *Printer) Error(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	p.println(true, Red(msg))
}

// FormatDuration renders d as h:mm:ss.ffffff
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%d:%02d:%02d.%06d", h, m, s, d/time.Microsecond)
}

// PrintError prints an error message on the default printer
func PrintError(msg string, args ...interface{}) {
	defaultPrinter.Error(msg, args...)
}

// PrintSuccess prints a success message on the default printer
func PrintSuccess(msg string) {
	defaultPrinter.Success(msg)
}

// PrintInfo prints a label/value pair on the default printer
func PrintInfo(label string, value string) {
	defaultPrinter.Info(label, value)
}

// PrintWarning prints a warning message on the default printer
func PrintWarning(msg string, args ...interface{}) {
	defaultPrinter.Warning(msg, args...)
}
