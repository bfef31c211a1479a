package progress

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker renders a progress bar over dependency discovery, the
// quadratic stage of a run.
type Tracker struct {
	bar       *progressbar.ProgressBar
	total     int64
	current   atomic.Int64
	startTime time.Time
	quiet     bool
}

// New creates a progress tracker. A quiet tracker counts but renders
// nothing; used when output is not a terminal or during tests.
func New(quiet bool) *Tracker {
	return &Tracker{
		startTime: time.Now(),
		quiet:     quiet,
	}
}

// SetTotal sets the number of column pairs to check.
func (t *Tracker) SetTotal(total int64) {
	t.total = total
	if t.quiet {
		return
	}
	t.bar = progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription("Discovering dependencies"),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pairs"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Add increments the progress counter.
func (t *Tracker) Add(n int64) {
	t.current.Add(n)
	if t.bar != nil {
		t.bar.Add64(n)
	}
}

// Current returns the current count.
func (t *Tracker) Current() int64 {
	return t.current.Load()
}

// Finish completes the bar and prints a one-line summary.
func (t *Tracker) Finish() {
	if t.bar != nil {
		t.bar.Finish()
	}
	if t.quiet {
		return
	}

	elapsed := time.Since(t.startTime)
	pairsPerSec := float64(t.current.Load()) / elapsed.Seconds()

	fmt.Println()
	fmt.Printf("Checked %d column pairs in %s (%.0f pairs/sec)\n",
		t.current.Load(), elapsed.Round(time.Millisecond), pairsPerSec)
}
