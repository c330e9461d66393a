package aggregator

import (
	"strings"
	"sync"
)

// PacketBuffer is the raw/verbose mode companion to the flow map: an
// append-only buffer of rendered frames, drained by the report writer on
// each tick. Bounded only by the report period.
type PacketBuffer struct {
	mu     sync.Mutex
	blocks []string
}

func NewPacketBuffer() *PacketBuffer {
	return &PacketBuffer{}
}

// Append adds one rendered frame.
func (b *PacketBuffer) Append(rendered string) {
	b.mu.Lock()
	b.blocks = append(b.blocks, rendered)
	b.mu.Unlock()
}

// DrainAll concatenates and clears the buffer.
func (b *PacketBuffer) DrainAll() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := strings.Join(b.blocks, "")
	b.blocks = nil
	return out
}

// Restore prepends previously drained content, used when a flush write
// fails.
func (b *PacketBuffer) Restore(content string) {
	if content == "" {
		return
	}
	b.mu.Lock()
	b.blocks = append([]string{content}, b.blocks...)
	b.mu.Unlock()
}

// Len reports the number of buffered entries. Content put back by Restore
// counts as a single entry, however many frames it holds.
func (b *PacketBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blocks)
}
