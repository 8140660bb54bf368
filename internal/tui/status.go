package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StatusWriter prints a single spinning status line, updated in place. The
// pipeline uses it for phases with no per-file granularity, like loading
// dependency reports or compressing the archive, before or after the main
// progress table runs.
type StatusWriter struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	since   time.Time
	done    chan struct{}
	stopped bool
}

// NewStatusWriter starts a background spinner rendering to w every 100ms.
// Callers must Stop it before writing anything else to the same stream.
func NewStatusWriter(w io.Writer) *StatusWriter {
	sw := &StatusWriter{
		w:     w,
		since: time.Now(),
		done:  make(chan struct{}),
	}
	go sw.loop()
	return sw
}

// Update swaps the message next to the spinner and restarts the elapsed
// timer from zero.
func (sw *StatusWriter) Update(msg string) {
	sw.mu.Lock()
	sw.message = msg
	sw.since = time.Now()
	sw.mu.Unlock()
}

// Stop halts the spinner and clears the status line. Safe to call twice.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	if sw.stopped {
		sw.mu.Unlock()
		return
	}
	sw.stopped = true
	sw.mu.Unlock()
	close(sw.done)
	fmt.Fprintf(sw.w, "\r\033[K")
}

func (sw *StatusWriter) loop() {
	tick := 0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sw.done:
			return
		case <-ticker.C:
			sw.mu.Lock()
			msg := sw.message
			start := sw.since
			sw.mu.Unlock()

			spinner := spinnerFrames[tick%len(spinnerFrames)]
			tick++
			fmt.Fprintf(sw.w, "\r\033[K%s %s (%s)", spinner, msg, formatElapsed(time.Since(start)))
		}
	}
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
