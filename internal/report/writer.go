package report

import (
	"os"
	"time"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/control"
	"firestige.xyz/snooper/internal/log"
	"firestige.xyz/snooper/internal/metrics"
)

// Writer flushes the aggregation state to the output file on a fixed
// cadence. It runs in its own goroutine: a one-second tick decrements a
// countdown, pause freezes the countdown, terminate triggers one final
// flush before exit so the tail of the last window is not lost.
type Writer struct {
	path    string
	format  Format
	period  int // seconds
	agg     *aggregator.Aggregator
	buf     *aggregator.PacketBuffer
	ctl     *control.Block

	// drained, when set, is closed once the consumer has drained the frame
	// channel; the final flush waits for it so the tail of the run is
	// complete.
	drained <-chan struct{}

	// tick is one countdown step; tests shorten it.
	tick time.Duration
}

// NewWriter creates a writer flushing every periodSeconds.
func NewWriter(path string, format Format, periodSeconds int, agg *aggregator.Aggregator, buf *aggregator.PacketBuffer, ctl *control.Block) *Writer {
	return &Writer{
		path:   path,
		format: format,
		period: periodSeconds,
		agg:    agg,
		buf:    buf,
		ctl:    ctl,
		tick:   time.Second,
	}
}

// SetDrainedSignal makes the final flush wait (bounded) for the consumer
// to finish draining in-flight frames.
func (w *Writer) SetDrainedSignal(ch <-chan struct{}) {
	w.drained = ch
}

// Run is the timer loop.
func (w *Writer) Run() {
	remaining := w.period
	for {
		if w.ctl.Terminated() {
			w.finalFlush()
			return
		}
		if w.ctl.Paused() {
			// The countdown is frozen for the duration of the pause.
			if !w.ctl.AwaitWhilePaused() {
				w.finalFlush()
				return
			}
			continue
		}

		time.Sleep(w.tick)

		if w.ctl.Terminated() {
			w.finalFlush()
			return
		}
		remaining--
		if remaining <= 0 {
			w.Flush()
			remaining = w.period
		}
	}
}

// Flush snapshots the aggregation state and writes it to the output file in
// one write. On a write error the snapshot is merged back so the next tick
// retries; no data is dropped on transient filesystem errors. The
// aggregator lock is never held across the write.
func (w *Writer) Flush() error {
	var content string
	var restore func()

	if w.format == FormatReport {
		snapshot := w.agg.SnapshotAndClear()
		content = RenderReportTable(snapshot)
		restore = func() { w.agg.Restore(snapshot) }
	} else {
		drained := w.buf.DrainAll()
		content = drained
		restore = func() { w.buf.Restore(drained) }
	}

	if err := os.WriteFile(w.path, []byte(content), 0644); err != nil {
		restore()
		metrics.ReportFlushErrors.Inc()
		log.GetLogger().WithError(err).WithField("path", w.path).Error("report flush failed, retaining data")
		return err
	}

	metrics.ReportFlushes.Inc()
	return nil
}

// finalFlush writes once more on shutdown, but only when there is pending
// data: truncating the output with an empty snapshot would wipe the last
// complete report.
func (w *Writer) finalFlush() {
	if w.drained != nil {
		select {
		case <-w.drained:
		case <-time.After(2 * time.Second):
		}
	}
	if w.format == FormatReport {
		if w.agg.Len() == 0 {
			return
		}
	} else if w.buf.Len() == 0 {
		return
	}
	w.Flush()
}
