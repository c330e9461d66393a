package capture

import (
	"fmt"
	"strings"
	"time"
)

// Options configures a capture handle.
type Options struct {
	Device       string `mapstructure:"device" yaml:"device"`
	SnapLen      int    `mapstructure:"snap_len" yaml:"snap_len"`
	TimeoutMs    int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	BufferSizeMB int    `mapstructure:"buffer_size_mb" yaml:"buffer_size_mb"`
	Backend      Type   `mapstructure:"backend" yaml:"backend"`
	BPFFilter    string `mapstructure:"bpf_filter" yaml:"bpf_filter,omitempty"`
}

// DefaultOptions returns capture defaults: full snap length and a 25 ms
// read timeout so pause/terminate are observed within bounded latency
// regardless of traffic volume.
func DefaultOptions() *Options {
	return &Options{
		SnapLen:      65535,
		TimeoutMs:    25,
		BufferSizeMB: 16,
		Backend:      TypePCAP,
	}
}

func (o *Options) timeout() time.Duration {
	if o.TimeoutMs <= 0 {
		return 25 * time.Millisecond
	}
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// ParseType converts a string to a backend Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pcap", "":
		return TypePCAP, nil
	case "afpacket", "af_packet", "af-packet":
		return TypeAFPacket, nil
	default:
		return "", fmt.Errorf("unknown capture backend: %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for mapstructure/yaml
// text deserialization.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
