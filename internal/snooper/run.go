package snooper

import (
	"fmt"
	"time"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/capture"
	"firestige.xyz/snooper/internal/control"
	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/log"
	"firestige.xyz/snooper/internal/report"
)

// frameChannelCapacity bounds the producer → consumer channel.
const frameChannelCapacity = 1000

// joinTimeout bounds how long End/Abort wait for each worker. Workers are
// bounded by the 25 ms capture timeout plus the 1 s timer tick, so this is
// generous.
const joinTimeout = 5 * time.Second

// Start spawns the capture, consumer and timer goroutines: Ready → Working.
// An unreachable interface surfaces here as a start failure with no
// goroutine spawned and the state left at Ready.
func (s *Snooper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return &InvalidStateError{Op: "start", State: s.state}
	}

	opts := *s.captureOpts
	opts.Device = s.cfg.Device

	handle, err := s.newHandle(&opts)
	if err != nil {
		return err
	}
	if err := handle.Open(); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	s.ctl = control.NewBlock()
	s.agg = aggregator.New(aggregator.NewFilter(s.cfg.Filter))
	s.buf = aggregator.NewPacketBuffer()

	frames := make(chan *core.Frame, frameChannelCapacity)
	producer := capture.NewProducer(handle, s.ctl, frames)
	writer := report.NewWriter(s.cfg.FilePath, s.cfg.Format, s.cfg.TimeInterval, s.agg, s.buf, s.ctl)

	s.captureDone = make(chan struct{})
	s.consumerDone = make(chan struct{})
	s.timerDone = make(chan struct{})
	writer.SetDrainedSignal(s.consumerDone)

	go func(done chan struct{}) {
		defer close(done)
		producer.Run()
	}(s.captureDone)
	go func(done chan struct{}, agg *aggregator.Aggregator, buf *aggregator.PacketBuffer, format report.Format) {
		defer close(done)
		consume(frames, agg, buf, format)
	}(s.consumerDone, s.agg, s.buf, s.cfg.Format)
	go func(done chan struct{}) {
		defer close(done)
		writer.Run()
	}(s.timerDone)

	log.GetLogger().WithFields(map[string]interface{}{
		"device":   s.cfg.Device,
		"interval": s.cfg.TimeInterval,
		"format":   string(s.cfg.Format),
		"filter":   s.cfg.Filter,
		"file":     s.cfg.FilePath,
	}).Info("analysis started")

	s.setState(StateWorking)
	return nil
}

// consume drains the frame channel into the aggregation state. It exits
// when the producer closes the channel, after draining any in-flight
// frames.
func consume(frames <-chan *core.Frame, agg *aggregator.Aggregator, buf *aggregator.PacketBuffer, format report.Format) {
	for frame := range frames {
		switch format {
		case report.FormatReport:
			agg.Push(frame)
		case report.FormatRaw:
			buf.Append(report.RenderRaw(frame))
		case report.FormatVerbose:
			buf.Append(report.RenderVerbose(frame))
		}
	}
}

// Stop pauses the run: Working → Stopped. Workers are signalled, never
// joined.
func (s *Snooper) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateWorking {
		return &InvalidStateError{Op: "stop", State: s.state}
	}

	s.ctl.Pause()
	s.setState(StateStopped)
	return nil
}

// Resume clears the pause: Stopped → Working.
func (s *Snooper) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return &InvalidStateError{Op: "resume", State: s.state}
	}

	s.ctl.Resume()
	s.setState(StateWorking)
	return nil
}

// End terminates the run and joins the workers: Working|Stopped → Ready.
// The configuration is preserved so the next Start reuses it.
func (s *Snooper) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateWorking && s.state != StateStopped {
		return &InvalidStateError{Op: "end", State: s.state}
	}

	err := s.terminateAndJoin()
	s.setState(StateReady)
	return err
}

// Abort terminates any active run and reverts to the initial configuration
// stage. Valid in every state; in configuration states there are no
// workers and it is a pure reset.
func (s *Snooper) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.captureDone != nil {
		err = s.terminateAndJoin()
	}

	s.cfg = defaultConfig()
	s.setState(StateConfigDevice)
	return err
}

// terminateAndJoin sets terminate (clearing pause so paused workers can
// observe it) and joins in capture → consumer → timer order. That order
// drains in-flight frames: the producer closes the channel on exit, the
// consumer drains it and exits, and only then does the timer take its
// final flush. Caller holds mu.
func (s *Snooper) terminateAndJoin() error {
	s.ctl.Terminate()

	var err error
	for _, join := range []struct {
		name string
		done chan struct{}
	}{
		{"capture", s.captureDone},
		{"consumer", s.consumerDone},
		{"timer", s.timerDone},
	} {
		select {
		case <-join.done:
		case <-time.After(joinTimeout):
			log.GetLogger().WithField("worker", join.name).Error("worker did not exit in time")
			if err == nil {
				err = &JoinFailureError{Worker: join.name}
			}
		}
	}

	s.captureDone = nil
	s.consumerDone = nil
	s.timerDone = nil
	s.agg = nil
	s.buf = nil

	log.GetLogger().Info("analysis ended")
	return err
}
