// Package snooper implements the analyzer controller state machine.
package snooper

import (
	"strings"
	"sync"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/capture"
	"firestige.xyz/snooper/internal/control"
	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/log"
	"firestige.xyz/snooper/internal/metrics"
	"firestige.xyz/snooper/internal/report"
)

// State represents the controller state.
type State string

const (
	StateConfigDevice       State = "ConfigDevice"
	StateConfigTimeInterval State = "ConfigTimeInterval"
	StateConfigFile         State = "ConfigFile"
	StateReportFormat       State = "ReportFormat"
	StatePacketFilter       State = "PacketFilter"
	StateReady              State = "Ready"
	StateWorking            State = "Working"
	StateStopped            State = "Stopped"
)

// allStates drives the one-hot state gauge.
var allStates = []State{
	StateConfigDevice, StateConfigTimeInterval, StateConfigFile,
	StateReportFormat, StatePacketFilter, StateReady, StateWorking, StateStopped,
}

// Config is the run configuration, immutable once the controller reaches
// Ready.
type Config struct {
	Device       string
	TimeInterval int // seconds between report flushes
	FilePath     string
	Format       report.Format
	Filter       string
}

func defaultConfig() Config {
	return Config{
		TimeInterval: 60,
		FilePath:     "output.txt",
		Format:       report.FormatReport,
	}
}

// Snooper is the analyzer controller. It owns the run configuration and
// the three worker goroutines (capture, consumer, timer); workers share
// only the control block, the frame channel and the aggregation state.
type Snooper struct {
	mu    sync.Mutex
	state State
	cfg   Config

	captureOpts *capture.Options

	ctl *control.Block
	agg *aggregator.Aggregator
	buf *aggregator.PacketBuffer

	captureDone  chan struct{}
	consumerDone chan struct{}
	timerDone    chan struct{}

	// seams, replaced by tests
	lookupDevice func(string) (*capture.Device, error)
	newHandle    func(*capture.Options) (capture.Handle, error)
}

// New creates a controller in ConfigDevice with default run configuration.
func New(captureOpts *capture.Options) *Snooper {
	if captureOpts == nil {
		captureOpts = capture.DefaultOptions()
	}
	return &Snooper{
		state:        StateConfigDevice,
		cfg:          defaultConfig(),
		captureOpts:  captureOpts,
		lookupDevice: capture.LookupDevice,
		newHandle:    capture.NewHandle,
	}
}

// State returns the current controller state.
func (s *Snooper) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the run configuration.
func (s *Snooper) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// setState updates the state and the one-hot metrics gauge. Caller holds mu.
func (s *Snooper) setState(next State) {
	if next != s.state {
		log.GetLogger().WithFields(map[string]interface{}{
			"from": string(s.state),
			"to":   string(next),
		}).Debug("state changed")
	}
	s.state = next
	for _, st := range allStates {
		value := 0.0
		if st == next {
			value = 1.0
		}
		metrics.AnalyzerState.WithLabelValues(string(st)).Set(value)
	}
}

// SetDevice validates the interface name against the system interface
// enumeration and advances ConfigDevice → ConfigTimeInterval.
func (s *Snooper) SetDevice(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfigDevice {
		return &InvalidStateError{Op: "set_device", State: s.state}
	}
	if _, err := s.lookupDevice(name); err != nil {
		return err
	}

	s.cfg.Device = name
	s.setState(StateConfigTimeInterval)
	return nil
}

// SetTimeInterval sets the report period in seconds and advances
// ConfigTimeInterval → ConfigFile.
func (s *Snooper) SetTimeInterval(seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfigTimeInterval {
		return &InvalidStateError{Op: "set_time_interval", State: s.state}
	}
	if seconds <= 0 {
		return core.ErrInvalidInterval
	}

	s.cfg.TimeInterval = seconds
	s.setState(StateConfigFile)
	return nil
}

// SetFilePath sets the report target and advances ConfigFile → ReportFormat.
func (s *Snooper) SetFilePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfigFile {
		return &InvalidStateError{Op: "set_file_path", State: s.state}
	}
	if strings.TrimSpace(path) == "" || strings.ContainsRune(path, 0) {
		return core.ErrInvalidFilePath
	}

	s.cfg.FilePath = path
	s.setState(StateReportFormat)
	return nil
}

// SetReportFormat sets the rendering mode (case-sensitive) and advances
// ReportFormat → PacketFilter.
func (s *Snooper) SetReportFormat(format string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReportFormat {
		return &InvalidStateError{Op: "set_report_format", State: s.state}
	}
	parsed, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	s.cfg.Format = parsed
	s.setState(StatePacketFilter)
	return nil
}

// SetPacketFilter sets the key-token filter (empty accepts all frames) and
// advances PacketFilter → Ready.
func (s *Snooper) SetPacketFilter(filter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePacketFilter {
		return &InvalidStateError{Op: "set_packet_filter", State: s.state}
	}
	for _, r := range filter {
		if r > 127 {
			return core.ErrInvalidFilter
		}
	}

	s.cfg.Filter = filter
	s.setState(StateReady)
	return nil
}

// FlowCount reports the number of flows currently aggregated. Zero when no
// run is active.
func (s *Snooper) FlowCount() int {
	s.mu.Lock()
	agg := s.agg
	s.mu.Unlock()

	if agg == nil {
		return 0
	}
	return agg.Len()
}

// Close aborts any active run and resets the controller. It implements
// io.Closer so the controller can be deferred.
func (s *Snooper) Close() error {
	return s.Abort()
}
