package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"apiscan/internal/driver"
)

// Bar is a plain progress bar for terminals where the full TUI is unwanted.
// It advances once per finished file.
type Bar struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	errors int
	cached int
}

// NewBar creates a bar for total files writing to w.
func NewBar(w io.Writer, total int, color bool) *Bar {
	desc := "Scanning"
	if color {
		desc = "[cyan]Scanning[reset]"
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(color),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &Bar{bar: bar}
}

// Sink returns a ProgressSink feeding the bar.
func (b *Bar) Sink() driver.ProgressSink {
	return driver.FuncSink(b.onEvent)
}

func (b *Bar) onEvent(ev driver.Event) {
	if ev.File == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	switch ev.Status {
	case driver.StatusDone:
	case driver.StatusCached:
		b.cached++
	case driver.StatusError:
		b.errors++
	default:
		return
	}
	_ = b.bar.Add(1)
}

// Finish completes the bar and returns the number of cached and failed files.
func (b *Bar) Finish() (cached, errors int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
	return b.cached, b.errors
}
