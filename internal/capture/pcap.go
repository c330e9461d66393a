package capture

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/log"
)

func init() {
	RegisterHandle(TypePCAP, NewPCAPHandle)
}

// pcapHandle is the libpcap capture backend.
type pcapHandle struct {
	opts   *Options
	handle *pcap.Handle
}

// NewPCAPHandle creates an unopened pcap handle.
func NewPCAPHandle(opts *Options) Handle {
	return &pcapHandle{opts: opts}
}

func (h *pcapHandle) Open() error {
	handle, err := pcap.OpenLive(h.opts.Device, int32(h.opts.SnapLen), true, h.opts.timeout())
	if err != nil {
		return fmt.Errorf("failed to open device %s: %w", h.opts.Device, err)
	}

	if h.opts.BPFFilter != "" {
		if err := handle.SetBPFFilter(h.opts.BPFFilter); err != nil {
			handle.Close()
			return fmt.Errorf("failed to set BPF filter: %w", err)
		}
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"device":   h.opts.Device,
		"snap_len": h.opts.SnapLen,
		"timeout":  h.opts.timeout(),
	}).Debug("pcap handle opened")

	h.handle = handle
	return nil
}

func (h *pcapHandle) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if h.handle == nil {
		return nil, gopacket.CaptureInfo{}, core.ErrHandleClosed
	}

	data, ci, err := h.handle.ReadPacketData()
	if err == pcap.NextErrorTimeoutExpired {
		return nil, ci, core.ErrWouldBlock
	}
	return data, ci, err
}

func (h *pcapHandle) Close() error {
	if h.handle != nil {
		h.handle.Close()
		h.handle = nil
	}
	return nil
}

func (h *pcapHandle) Type() Type {
	return TypePCAP
}
