package report

import (
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/core"
)

var t0 = time.Date(2026, 7, 14, 10, 30, 0, 0, time.UTC)

func udpFrame(srcPort, dstPort uint16, service core.Service, size int) *core.Frame {
	return &core.Frame{
		Timestamp: t0,
		Length:    size,
		Eth: core.EthernetHeader{
			DstMAC:    core.MACAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			SrcMAC:    core.MACAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
			EtherType: 0x0800,
			Kind:      core.EtherIPv4,
		},
		IP: &core.IPHeader{
			Version:   4,
			HeaderLen: 20,
			TTL:       64,
			SrcIP:     netip.MustParseAddr("192.168.1.119"),
			DstIP:     netip.MustParseAddr("142.250.184.46"),
			Protocol:  core.ProtocolUDP,
		},
		Transport: &core.TransportHeader{
			Protocol: core.ProtocolUDP,
			SrcPort:  srcPort,
			DstPort:  dstPort,
			UDPLen:   uint16(size),
		},
		Service: service,
	}
}

func TestRenderReportTableHeader(t *testing.T) {
	out := RenderReportTable(nil)

	expected := "IP src          | IP dst          | Port src  | Port dst  | L4 Protocol     | Upper Service   | Num. Bytes      | Initial Timestamp                   | Final Timestamp\n"
	assert.Equal(t, expected, out)
}

func TestRenderReportTableSingleFlow(t *testing.T) {
	agg := aggregator.New(nil)
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))

	out := RenderReportTable(agg.SnapshotAndClear())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	row := lines[1]
	assert.Contains(t, row, "192.168.1.119")
	assert.Contains(t, row, "142.250.184.46")
	assert.Contains(t, row, "46374")
	assert.Contains(t, row, "443")
	assert.Contains(t, row, "UDP")
	assert.Contains(t, row, "HTTPS")
	assert.Contains(t, row, "500")
	assert.Contains(t, row, "2026-07-14 10:30:00.000")

	fields := strings.Split(row, " | ")
	require.Len(t, fields, 9)
	assert.Equal(t, "192.168.1.119  ", fields[0])
	assert.Equal(t, "142.250.184.46 ", fields[1])
	assert.Equal(t, "46374    ", fields[2])
	assert.Equal(t, "443      ", fields[3])
}

func TestRenderReportTableMergedFlow(t *testing.T) {
	agg := aggregator.New(nil)

	first := udpFrame(46374, 443, "HTTPS", 200)
	second := udpFrame(46374, 443, "HTTPS", 300)
	second.Timestamp = t0.Add(100 * time.Millisecond)
	require.True(t, agg.Push(first))
	require.True(t, agg.Push(second))

	out := RenderReportTable(agg.SnapshotAndClear())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "500")
	assert.Contains(t, lines[1], "2026-07-14 10:30:00.000")
	assert.Contains(t, lines[1], "2026-07-14 10:30:00.100")
}

func TestRenderRaw(t *testing.T) {
	assert.Equal(t, "Ethernet IPV4 UDP\n", RenderRaw(udpFrame(46374, 443, "HTTPS", 500)))

	arp := &core.Frame{
		Timestamp: t0,
		Eth:       core.EthernetHeader{Kind: core.EtherARP, EtherType: 0x0806},
	}
	assert.Equal(t, "Ethernet ARP\n", RenderRaw(arp))
}

func TestRenderVerbose(t *testing.T) {
	out := RenderVerbose(udpFrame(46374, 443, "HTTPS", 500))

	assert.Contains(t, out, "aa:bb:cc:dd:ee:ff -> 00:11:22:33:44:55")
	assert.Contains(t, out, "IPV4 : 192.168.1.119 -> 142.250.184.46")
	assert.Contains(t, out, "UDP : 46374 -> 443")
	assert.Contains(t, out, "Upper service : HTTPS")
	assert.True(t, strings.HasSuffix(out, "----------------\n"))
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"raw", "verbose", "report"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), f)
	}

	// Matching is case-sensitive.
	for _, invalid := range []string{"Raw", "REPORT", "table", ""} {
		_, err := ParseFormat(invalid)
		assert.ErrorIs(t, err, core.ErrInvalidFormat, "expected rejection of %q", invalid)
	}
}
