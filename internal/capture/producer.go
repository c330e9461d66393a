package capture

import (
	"firestige.xyz/snooper/internal/control"
	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/core/decoder"
	"firestige.xyz/snooper/internal/log"
	"firestige.xyz/snooper/internal/metrics"
)

// maxConsecutiveReadErrors is the persistent-failure threshold: a handle
// that fails this many reads in a row is considered gone.
const maxConsecutiveReadErrors = 3

// Producer reads frames from an opened capture handle, decodes them and
// forwards them on the frame channel. It is the single producer of the
// channel and closes it on exit, which cascades shutdown to the consumer.
type Producer struct {
	handle Handle
	ctl    *control.Block
	out    chan<- *core.Frame
}

// NewProducer wraps an already-opened handle. Opening happens at Start so
// an unreachable interface surfaces as a start failure before any
// goroutine is spawned.
func NewProducer(handle Handle, ctl *control.Block, out chan<- *core.Frame) *Producer {
	return &Producer{
		handle: handle,
		ctl:    ctl,
		out:    out,
	}
}

// Run is the producer loop. Exit paths: terminate observed, reopen failure
// after a pause, or a persistent read failure. All of them close the frame
// channel and release the handle.
func (p *Producer) Run() {
	logger := log.GetLogger().WithField("component", "capture")

	defer close(p.out)
	defer func() {
		if p.handle != nil {
			p.handle.Close()
		}
	}()

	consecutiveErrors := 0
	for {
		if p.ctl.Terminated() {
			return
		}

		if p.ctl.Paused() {
			// Release the handle so the OS drops frames buffered during
			// the pause instead of bursting them on resume.
			p.handle.Close()
			if !p.ctl.AwaitWhilePaused() {
				return
			}
			if err := p.handle.Open(); err != nil {
				logger.WithError(err).Error("failed to reopen capture handle after pause")
				return
			}
			logger.Debug("capture handle reopened after pause")
			continue
		}

		data, ci, err := p.handle.ReadPacket()
		if err == core.ErrWouldBlock {
			continue
		}
		if err != nil {
			consecutiveErrors++
			metrics.CaptureReadErrors.Inc()
			if consecutiveErrors >= maxConsecutiveReadErrors {
				logger.WithError(err).Error("persistent capture failure, producer exiting")
				return
			}
			logger.WithError(err).Warn("transient capture read error")
			continue
		}
		consecutiveErrors = 0

		frame, err := decoder.Decode(data, ci.Timestamp, ci.Length)
		if err != nil {
			metrics.DecodeErrors.Inc()
			continue
		}

		// Flags may have flipped during the read; drop the frame rather
		// than deliver into a paused or terminating run.
		if p.ctl.Terminated() || p.ctl.Paused() {
			continue
		}

		metrics.PacketsCaptured.Inc()
		p.out <- frame
	}
}
