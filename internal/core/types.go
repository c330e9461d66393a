// Package core defines core frame types with zero external dependencies.
package core

import (
	"fmt"
	"net/netip"
	"time"
)

// MACAddr is a 48-bit hardware address.
type MACAddr [6]byte

func (m MACAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// EtherKind classifies the L2 EtherType field.
type EtherKind uint8

const (
	EtherUnknown EtherKind = iota
	// Ether8023 marks a type field in length mode (numerically <= 0x05DC).
	Ether8023
	EtherIPv4
	EtherIPv6
	EtherARP
)

func (k EtherKind) String() string {
	switch k {
	case Ether8023:
		return "Ethernet 802.3"
	case EtherIPv4:
		return "IPV4"
	case EtherIPv6:
		return "IPV6"
	case EtherARP:
		return "ARP"
	default:
		return "Unknown"
	}
}

// Protocol is an IP protocol number (IPv4 Protocol / IPv6 Next Header).
type Protocol uint8

const (
	ProtocolICMPv4 Protocol = 1
	ProtocolIGMP   Protocol = 2
	ProtocolTCP    Protocol = 6
	ProtocolUDP    Protocol = 17
	ProtocolICMPv6 Protocol = 58
)

func (p Protocol) String() string {
	switch p {
	case ProtocolICMPv4:
		return "ICMPv4"
	case ProtocolIGMP:
		return "IGMP"
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	case ProtocolICMPv6:
		return "ICMPv6"
	default:
		return "Unknown"
	}
}

// Service is the upper-layer service resolved from the well-known port table.
type Service string

const ServiceUnknown Service = "unknown"

// EthernetHeader represents the L2 Ethernet frame header.
type EthernetHeader struct {
	DstMAC    MACAddr
	SrcMAC    MACAddr
	EtherType uint16
	Kind      EtherKind
}

// IPHeader represents the L3 header, IPv4 or IPv6.
type IPHeader struct {
	Version   uint8
	HeaderLen int // bytes, options included
	TTL       uint8
	SrcIP     netip.Addr
	DstIP     netip.Addr
	Protocol  Protocol
}

// TransportHeader represents the L4 header (TCP/UDP).
type TransportHeader struct {
	Protocol Protocol
	SrcPort  uint16
	DstPort  uint16

	// TCP-specific fields
	SeqNum     uint32
	AckNum     uint32
	DataOffset uint8 // 32-bit words
	TCPFlags   uint8
	Window     uint16
	Checksum   uint16
	UrgentPtr  uint16

	// UDP-specific fields
	UDPLen uint16
}

// Frame is one captured link-layer PDU after decoding.
// Timestamp is assigned at capture time, UTC, millisecond precision.
// Length is the wire length reported by the capture framework, not a computed sum.
type Frame struct {
	Timestamp time.Time
	Length    int
	Eth       EthernetHeader
	IP        *IPHeader
	Transport *TransportHeader
	Service   Service
}

// Aggregatable reports whether the frame carries a complete flow key:
// IPv4/IPv6 over TCP/UDP with a resolved upper-layer service.
func (f *Frame) Aggregatable() bool {
	if f.Eth.Kind != EtherIPv4 && f.Eth.Kind != EtherIPv6 {
		return false
	}
	if f.IP == nil || f.Transport == nil {
		return false
	}
	if f.Transport.Protocol != ProtocolTCP && f.Transport.Protocol != ProtocolUDP {
		return false
	}
	return f.Service != ServiceUnknown && f.Service != ""
}
