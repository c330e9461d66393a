package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacketBufferAppendDrain(t *testing.T) {
	b := NewPacketBuffer()
	b.Append("Ethernet IPV4 UDP\n")
	b.Append("Ethernet IPV4 TCP\n")

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "Ethernet IPV4 UDP\nEthernet IPV4 TCP\n", b.DrainAll())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.DrainAll())
}

func TestPacketBufferRestorePrepends(t *testing.T) {
	b := NewPacketBuffer()
	b.Append("first\n")
	drained := b.DrainAll()

	b.Append("second\n")
	b.Restore(drained)

	assert.Equal(t, "first\nsecond\n", b.DrainAll())
}

func TestPacketBufferRestoreEmptyNoop(t *testing.T) {
	b := NewPacketBuffer()
	b.Restore("")
	assert.Equal(t, 0, b.Len())
}
