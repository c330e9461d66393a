//go:build linux

package capture

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"

	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/log"
)

func init() {
	RegisterHandle(TypeAFPacket, NewAFPacketHandle)
}

// afpacketHandle is the AF_PACKET (TPACKET v3) capture backend. It does not
// put the interface into promiscuous mode.
type afpacketHandle struct {
	opts    *Options
	tpacket *afpacket.TPacket
}

// NewAFPacketHandle creates an unopened AF_PACKET handle.
func NewAFPacketHandle(opts *Options) Handle {
	return &afpacketHandle{opts: opts}
}

func (h *afpacketHandle) Open() error {
	frameSize, blockSize, numBlocks, err := computeFrameSizeAndBlocks(h.opts)
	if err != nil {
		return err
	}

	tpacket, err := afpacket.NewTPacket(
		afpacket.OptInterface(h.opts.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(h.opts.timeout()),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return fmt.Errorf("failed to create TPacket on %s: %w", h.opts.Device, err)
	}

	if h.opts.BPFFilter != "" {
		rawBPF, err := compileBPF(h.opts.BPFFilter, h.opts.SnapLen)
		if err != nil {
			tpacket.Close()
			return err
		}
		if err := tpacket.SetBPF(rawBPF); err != nil {
			tpacket.Close()
			return fmt.Errorf("failed to set BPF filter: %w", err)
		}
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"device":     h.opts.Device,
		"frame_size": frameSize,
		"block_size": blockSize,
		"num_blocks": numBlocks,
	}).Debug("afpacket handle opened")

	h.tpacket = tpacket
	return nil
}

func computeFrameSizeAndBlocks(opts *Options) (frameSize, blockSize, numBlocks int, err error) {
	pageSize := os.Getpagesize()
	if opts.SnapLen < pageSize {
		frameSize = pageSize / (pageSize / opts.SnapLen)
	} else {
		frameSize = (opts.SnapLen/pageSize + 1) * pageSize
	}
	blockSize = frameSize * 128
	numBlocks = (opts.BufferSizeMB * 1024 * 1024) / blockSize

	if numBlocks < 1 {
		return 0, 0, 0, fmt.Errorf("buffer size too small for frame size %d", frameSize)
	}
	return frameSize, blockSize, numBlocks, nil
}

func (h *afpacketHandle) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if h.tpacket == nil {
		return nil, gopacket.CaptureInfo{}, core.ErrHandleClosed
	}

	data, ci, err := h.tpacket.ReadPacketData()
	if err == afpacket.ErrTimeout {
		return nil, ci, core.ErrWouldBlock
	}
	return data, ci, err
}

func (h *afpacketHandle) Close() error {
	if h.tpacket != nil {
		h.tpacket.Close()
		h.tpacket = nil
	}
	return nil
}

func (h *afpacketHandle) Type() Type {
	return TypeAFPacket
}
