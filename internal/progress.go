package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager is the terminal side of a run: the batch progress bar, verbose
// tracing, status lines and warnings
type UIManager interface {
	NewProgressBar(total int, description string) ProgressBar

	// Verbose prints only with --verbose
	Verbose(format string, args ...interface{})

	// Printf and Println print unless --quiet
	Printf(format string, args ...interface{})
	Println(args ...interface{})

	// Warnf always prints, to stderr
	Warnf(format string, args ...interface{})
}

// ProgressBar tracks how many videos of a batch were handled
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

// StandardUIManager writes status to stdout and the bar and warnings to stderr
type StandardUIManager struct {
	verbose bool
	quiet   bool
	out     io.Writer
	errOut  io.Writer
	tty     bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return NewUIManagerTo(os.Stdout, os.Stderr, verbose, quiet)
}

// NewUIManagerTo writes to out and errOut. The bar is only drawn when errOut
// is a terminal.
func NewUIManagerTo(out, errOut io.Writer, verbose, quiet bool) *StandardUIManager {
	tty := false
	if f, ok := errOut.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
		out:     out,
		errOut:  errOut,
		tty:     tty,
	}
}

// NewProgressBar draws a bar on a terminal and counts silently otherwise
func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	if ui.quiet || ui.verbose || !ui.tty {
		// verbose lines would interleave with the bar
		return &videoBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &videoBar{bar: bar, describe: true}
}

func (ui *StandardUIManager) Verbose(format string, args ...interface{}) {
	if ui.verbose {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Printf(format string, args ...interface{}) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...interface{}) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

func (ui *StandardUIManager) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(ui.errOut, "Warning: "+format, args...)
}

// videoBar shows the title of the video in progress when describe is set
type videoBar struct {
	bar      *progressbar.ProgressBar
	describe bool
}

func (b *videoBar) Set(current int) {
	_ = b.bar.Set(current)
}

func (b *videoBar) Describe(title string) {
	if !b.describe {
		return
	}
	if len([]rune(title)) > 40 {
		title = string([]rune(title)[:39]) + "…"
	}
	b.bar.Describe(title)
}

func (b *videoBar) Finish() {
	_ = b.bar.Finish()
}
