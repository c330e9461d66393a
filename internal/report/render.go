package report

import (
	"fmt"
	"sort"
	"strings"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/core"
)

// timestampLayout renders capture timestamps in UTC with millisecond
// precision.
const timestampLayout = "2006-01-02 15:04:05.000"

// blockSeparator divides verbose-mode frame dumps.
const blockSeparator = "----------------\n"

// RenderReportTable renders the flow snapshot as a fixed-width table, rows
// ordered by serialized key for deterministic output.
func RenderReportTable(snapshot map[string]*aggregator.FlowRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-15s | %-15s | %-9s | %-9s | %-15s | %-15s | %-15s | %-35s | %s\n",
		"IP src", "IP dst", "Port src", "Port dst", "L4 Protocol", "Upper Service", "Num. Bytes",
		"Initial Timestamp", "Final Timestamp"))

	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		r := snapshot[key]
		sb.WriteString(fmt.Sprintf("%-15s | %-15s | %-9d | %-9d | %-15s | %-15s | %-15d | %-35s | %s\n",
			r.Key.SrcIP, r.Key.DstIP, r.Key.SrcPort, r.Key.DstPort, r.Key.Protocol, r.Key.Service,
			r.Bytes,
			r.FirstSeen.UTC().Format(timestampLayout),
			r.LastSeen.UTC().Format(timestampLayout)))
	}

	return sb.String()
}

// RenderRaw renders one frame as a single line naming the L2/L3/L4 tags,
// e.g. "Ethernet IPV4 UDP".
func RenderRaw(f *core.Frame) string {
	parts := []string{"Ethernet", f.Eth.Kind.String()}
	if f.IP != nil {
		parts = append(parts, f.IP.Protocol.String())
	}
	return strings.Join(parts, " ") + "\n"
}

// RenderVerbose renders one frame as a multi-line dump terminated by the
// block separator.
func RenderVerbose(f *core.Frame) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %d bytes\n", f.Timestamp.UTC().Format(timestampLayout), f.Length))
	sb.WriteString(fmt.Sprintf("Ethernet : %s -> %s (%s)\n", f.Eth.SrcMAC, f.Eth.DstMAC, f.Eth.Kind))

	if f.IP != nil {
		sb.WriteString(fmt.Sprintf("%s : %s -> %s, header %d bytes, TTL %d, protocol %s\n",
			ipVersionName(f.IP.Version), f.IP.SrcIP, f.IP.DstIP, f.IP.HeaderLen, f.IP.TTL, f.IP.Protocol))
	}

	if f.Transport != nil {
		switch f.Transport.Protocol {
		case core.ProtocolTCP:
			sb.WriteString(fmt.Sprintf("TCP : %d -> %d, seq %d, ack %d, flags 0x%02x, window %d\n",
				f.Transport.SrcPort, f.Transport.DstPort,
				f.Transport.SeqNum, f.Transport.AckNum, f.Transport.TCPFlags, f.Transport.Window))
		case core.ProtocolUDP:
			sb.WriteString(fmt.Sprintf("UDP : %d -> %d, length %d\n",
				f.Transport.SrcPort, f.Transport.DstPort, f.Transport.UDPLen))
		}
		sb.WriteString(fmt.Sprintf("Upper service : %s\n", f.Service))
	}

	sb.WriteString(blockSeparator)
	return sb.String()
}

func ipVersionName(version uint8) string {
	if version == 6 {
		return "IPV6"
	}
	return "IPV4"
}
