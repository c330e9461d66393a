package capture

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/snooper/internal/control"
	"firestige.xyz/snooper/internal/core"
)

// scriptedHandle delivers queued frames and reports open/close activity.
type scriptedHandle struct {
	mu      sync.Mutex
	opened  bool
	opens   int
	closes  int
	readErr error

	frames chan []byte
}

func newScriptedHandle() *scriptedHandle {
	h := &scriptedHandle{frames: make(chan []byte, 16)}
	h.opened = true
	h.opens = 1
	return h
}

func (h *scriptedHandle) Open() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = true
	h.opens++
	return nil
}

func (h *scriptedHandle) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	h.mu.Lock()
	readErr := h.readErr
	h.mu.Unlock()
	if readErr != nil {
		return nil, gopacket.CaptureInfo{}, readErr
	}

	select {
	case data := <-h.frames:
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			CaptureLength: len(data),
			Length:        len(data),
		}
		return data, ci, nil
	case <-time.After(2 * time.Millisecond):
		return nil, gopacket.CaptureInfo{}, core.ErrWouldBlock
	}
}

func (h *scriptedHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.opened {
		h.opened = false
		h.closes++
	}
	return nil
}

func (h *scriptedHandle) Type() Type { return TypePCAP }

func (h *scriptedHandle) closeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

func (h *scriptedHandle) setReadErr(err error) {
	h.mu.Lock()
	h.readErr = err
	h.mu.Unlock()
}

// ethernetARP is a minimal decodable frame.
var ethernetARP = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	0x08, 0x06,
	0x00, 0x01,
}

func TestProducerDeliversFrames(t *testing.T) {
	handle := newScriptedHandle()
	ctl := control.NewBlock()
	out := make(chan *core.Frame, 16)

	p := NewProducer(handle, ctl, out)
	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	handle.frames <- ethernetARP

	select {
	case frame := <-out:
		assert.Equal(t, core.EtherARP, frame.Eth.Kind)
		assert.Equal(t, len(ethernetARP), frame.Length)
	case <-time.After(time.Second):
		t.Fatal("producer delivered no frame")
	}

	ctl.Terminate()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not exit on terminate")
	}
}

func TestProducerClosesChannelOnExit(t *testing.T) {
	handle := newScriptedHandle()
	ctl := control.NewBlock()
	out := make(chan *core.Frame, 16)

	p := NewProducer(handle, ctl, out)
	go p.Run()

	ctl.Terminate()

	select {
	case _, ok := <-out:
		assert.False(t, ok, "channel must be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
	assert.GreaterOrEqual(t, handle.closeCount(), 1, "handle must be released on exit")
}

func TestProducerReleasesHandleWhilePaused(t *testing.T) {
	handle := newScriptedHandle()
	ctl := control.NewBlock()
	out := make(chan *core.Frame, 16)

	p := NewProducer(handle, ctl, out)
	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	ctl.Pause()
	require.Eventually(t, func() bool {
		return handle.closeCount() >= 1
	}, time.Second, 2*time.Millisecond)

	opensBefore := func() int { handle.mu.Lock(); defer handle.mu.Unlock(); return handle.opens }()
	ctl.Resume()
	require.Eventually(t, func() bool {
		handle.mu.Lock()
		defer handle.mu.Unlock()
		return handle.opens > opensBefore
	}, time.Second, 2*time.Millisecond)

	ctl.Terminate()
	<-done
}

func TestProducerExitsAfterPersistentErrors(t *testing.T) {
	handle := newScriptedHandle()
	handle.setReadErr(errors.New("device gone"))
	ctl := control.NewBlock()
	out := make(chan *core.Frame, 16)

	p := NewProducer(handle, ctl, out)
	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not exit after persistent read errors")
	}

	// The channel closed as part of the cascade.
	_, ok := <-out
	assert.False(t, ok)
}
