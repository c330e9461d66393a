package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/snooper/internal/aggregator"
	"firestige.xyz/snooper/internal/control"
)

func TestFlushReportFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	agg := aggregator.New(nil)
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))

	w := NewWriter(path, FormatReport, 1, agg, aggregator.NewPacketBuffer(), control.NewBlock())
	require.NoError(t, w.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Initial Timestamp")
	assert.Contains(t, lines[1], "HTTPS")

	// The snapshot was consumed.
	assert.Equal(t, 0, agg.Len())
}

func TestFlushTruncatesPreviousReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	agg := aggregator.New(nil)
	w := NewWriter(path, FormatReport, 1, agg, aggregator.NewPacketBuffer(), control.NewBlock())

	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))
	require.NoError(t, w.Flush())

	// Second flush with no traffic: header only.
	require.NoError(t, w.Flush())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "\n"))
}

func TestFlushRawFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	buf := aggregator.NewPacketBuffer()
	buf.Append("Ethernet IPV4 UDP\n")
	buf.Append("Ethernet ARP\n")

	w := NewWriter(path, FormatRaw, 1, aggregator.New(nil), buf, control.NewBlock())
	require.NoError(t, w.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ethernet IPV4 UDP\nEthernet ARP\n", string(content))
	assert.Equal(t, 0, buf.Len())
}

func TestFlushErrorRetainsData(t *testing.T) {
	// A directory as the target path forces the write to fail.
	dir := t.TempDir()
	agg := aggregator.New(nil)
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))

	w := NewWriter(dir, FormatReport, 1, agg, aggregator.NewPacketBuffer(), control.NewBlock())
	require.Error(t, w.Flush())

	// The snapshot was merged back for the next tick.
	assert.Equal(t, 1, agg.Len())
}

func TestRunFlushesOnCadence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	agg := aggregator.New(nil)
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))

	ctl := control.NewBlock()
	w := NewWriter(path, FormatReport, 1, agg, aggregator.NewPacketBuffer(), ctl)
	w.tick = 10 * time.Millisecond

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		content, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(content), "HTTPS")
	}, time.Second, 5*time.Millisecond)

	ctl.Terminate()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not exit on terminate")
	}
}

func TestRunFinalFlushOnTerminate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	agg := aggregator.New(nil)

	ctl := control.NewBlock()
	w := NewWriter(path, FormatReport, 1000, agg, aggregator.NewPacketBuffer(), ctl)
	w.tick = 10 * time.Millisecond

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	// Data arrives, then terminate fires long before the period expires.
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))
	time.Sleep(30 * time.Millisecond)
	ctl.Terminate()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not exit on terminate")
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "HTTPS")
}

func TestRunPauseFreezesCountdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	agg := aggregator.New(nil)
	require.True(t, agg.Push(udpFrame(46374, 443, "HTTPS", 500)))

	ctl := control.NewBlock()
	ctl.Pause()

	w := NewWriter(path, FormatReport, 1, agg, aggregator.NewPacketBuffer(), ctl)
	w.tick = 10 * time.Millisecond

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	// Paused: nothing may be written.
	time.Sleep(50 * time.Millisecond)
	_, err := os.ReadFile(path)
	assert.True(t, os.IsNotExist(err))

	ctl.Resume()
	require.Eventually(t, func() bool {
		content, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(content), "HTTPS")
	}, time.Second, 5*time.Millisecond)

	ctl.Terminate()
	<-done
}
