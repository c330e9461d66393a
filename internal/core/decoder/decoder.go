// Package decoder implements layered protocol decoding.
package decoder

import (
	"time"

	"firestige.xyz/snooper/internal/core"
)

// Decode parses raw frame bytes into a core.Frame. It is a pure function:
// no shared state, no I/O. ts is the capture timestamp and wireLen the
// on-the-wire length reported by the capture framework.
//
// Decoding stops at the deepest layer it can classify. A frame whose
// EtherType, L4 protocol or upper service cannot be resolved is still
// returned (for raw/verbose rendering) but is not aggregatable.
func Decode(data []byte, ts time.Time, wireLen int) (*core.Frame, error) {
	eth, payload, err := decodeEthernet(data)
	if err != nil {
		return nil, err
	}

	frame := &core.Frame{
		Timestamp: ts.UTC().Truncate(time.Millisecond),
		Length:    wireLen,
		Eth:       eth,
		Service:   core.ServiceUnknown,
	}

	switch eth.Kind {
	case core.EtherIPv4, core.EtherIPv6:
	default:
		// 802.3 length mode, ARP and unknown EtherTypes carry no decodable
		// upper layers for our purposes.
		return frame, nil
	}

	ip, ipPayload, err := decodeIP(payload)
	if err != nil {
		return frame, nil
	}
	frame.IP = &ip

	switch ip.Protocol {
	case core.ProtocolTCP, core.ProtocolUDP:
	default:
		return frame, nil
	}

	transport, _, err := decodeTransport(ipPayload, ip.Protocol)
	if err != nil {
		return frame, nil
	}
	frame.Transport = &transport
	frame.Service = ResolveService(transport.SrcPort, transport.DstPort)

	return frame, nil
}
