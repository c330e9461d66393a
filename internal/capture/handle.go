// Package capture implements packet capture handles and the producer loop.
package capture

import "github.com/google/gopacket"

// Type identifies a capture backend.
type Type string

const (
	TypePCAP     Type = "pcap"
	TypeAFPacket Type = "afpacket"
)

// Handle is a packet capture handle. Open and Close may be called more than
// once over the handle's lifetime: the producer releases the handle while
// paused and reopens it on resume so the OS drops frames buffered during
// the pause.
type Handle interface {
	// Open opens the underlying capture facility with a short read timeout
	// and non-blocking delivery. The pcap backend opens the interface in
	// promiscuous mode; the afpacket backend does not change the
	// interface's promiscuous setting.
	Open() error

	// ReadPacket reads one frame. It returns core.ErrWouldBlock when no
	// frame is available within the read timeout.
	ReadPacket() ([]byte, gopacket.CaptureInfo, error)

	// Close releases the capture facility. Closing a closed handle is a
	// no-op.
	Close() error

	// Type reports the backend type.
	Type() Type
}
