package decoder

import (
	"encoding/binary"

	"firestige.xyz/snooper/internal/core"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = 20
)

// decodeTransport decodes a transport layer header (TCP/UDP).
// Returns the header and the remaining payload.
func decodeTransport(data []byte, protocol core.Protocol) (core.TransportHeader, []byte, error) {
	switch protocol {
	case core.ProtocolTCP:
		return decodeTCP(data)
	case core.ProtocolUDP:
		return decodeUDP(data)
	default:
		return core.TransportHeader{Protocol: protocol}, data, nil
	}
}

// decodeUDP decodes the 8-byte UDP header.
func decodeUDP(data []byte) (core.TransportHeader, []byte, error) {
	if len(data) < udpHeaderLen {
		return core.TransportHeader{}, nil, core.ErrPacketTooShort
	}

	transport := core.TransportHeader{
		Protocol: core.ProtocolUDP,
		SrcPort:  binary.BigEndian.Uint16(data[0:2]),
		DstPort:  binary.BigEndian.Uint16(data[2:4]),
		UDPLen:   binary.BigEndian.Uint16(data[4:6]),
		Checksum: binary.BigEndian.Uint16(data[6:8]),
	}

	return transport, data[udpHeaderLen:], nil
}

// decodeTCP decodes the 20-byte fixed TCP header plus options up to the
// data offset. A data offset exceeding the packet length rejects the frame.
func decodeTCP(data []byte) (core.TransportHeader, []byte, error) {
	if len(data) < tcpHeaderMinLen {
		return core.TransportHeader{}, nil, core.ErrPacketTooShort
	}

	transport := core.TransportHeader{
		Protocol:   core.ProtocolTCP,
		SrcPort:    binary.BigEndian.Uint16(data[0:2]),
		DstPort:    binary.BigEndian.Uint16(data[2:4]),
		SeqNum:     binary.BigEndian.Uint32(data[4:8]),
		AckNum:     binary.BigEndian.Uint32(data[8:12]),
		DataOffset: data[12] >> 4,
		TCPFlags:   data[13] & 0x3F,
		Window:     binary.BigEndian.Uint16(data[14:16]),
		Checksum:   binary.BigEndian.Uint16(data[16:18]),
		UrgentPtr:  binary.BigEndian.Uint16(data[18:20]),
	}

	// Data offset is in 32-bit words
	headerLen := int(transport.DataOffset) * 4
	if headerLen < tcpHeaderMinLen || len(data) < headerLen {
		return transport, nil, core.ErrPacketTooShort
	}

	return transport, data[headerLen:], nil
}
