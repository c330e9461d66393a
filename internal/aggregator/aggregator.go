// Package aggregator implements keyed flow summarization.
package aggregator

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/metrics"
)

// FlowKey is the six-tuple identifying a flow. Two frames share a key iff
// all six fields match exactly. Note the src-first port precedence upstream
// in the decoder: the two directions of one conversation carry distinct
// keys.
type FlowKey struct {
	SrcIP    string
	DstIP    string
	SrcPort  uint16
	DstPort  uint16
	Protocol string
	Service  string
}

// KeyFromFrame derives the flow key. A frame lacking any component has no
// key and contributes nothing to the aggregator.
func KeyFromFrame(f *core.Frame) (FlowKey, bool) {
	if !f.Aggregatable() {
		return FlowKey{}, false
	}
	return FlowKey{
		SrcIP:    f.IP.SrcIP.String(),
		DstIP:    f.IP.DstIP.String(),
		SrcPort:  f.Transport.SrcPort,
		DstPort:  f.Transport.DstPort,
		Protocol: f.Transport.Protocol.String(),
		Service:  string(f.Service),
	}, true
}

// String serializes the key in canonical form:
// "ip_src ip_dst port_src port_dst l4 service".
func (k FlowKey) String() string {
	return fmt.Sprintf("%s %s %d %d %s %s", k.SrcIP, k.DstIP, k.SrcPort, k.DstPort, k.Protocol, k.Service)
}

// ParseKey parses a canonical key serialization back into its six-tuple.
func ParseKey(s string) (FlowKey, error) {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return FlowKey{}, fmt.Errorf("malformed flow key: %q", s)
	}
	srcPort, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return FlowKey{}, fmt.Errorf("malformed src port in flow key: %q", s)
	}
	dstPort, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return FlowKey{}, fmt.Errorf("malformed dst port in flow key: %q", s)
	}
	return FlowKey{
		SrcIP:    fields[0],
		DstIP:    fields[1],
		SrcPort:  uint16(srcPort),
		DstPort:  uint16(dstPort),
		Protocol: fields[4],
		Service:  fields[5],
	}, nil
}

// FlowRecord accumulates one flow within a report period.
type FlowRecord struct {
	Key       FlowKey
	Bytes     int64
	FirstSeen time.Time
	LastSeen  time.Time
}

// Aggregator maps serialized flow keys to flow records. It is shared
// between the consumer (Push) and the timer (SnapshotAndClear/Restore);
// the mutex is held only for map operations, never across I/O.
type Aggregator struct {
	mu     sync.Mutex
	filter *Filter
	flows  map[string]*FlowRecord
}

// New creates an empty aggregator with the given filter.
func New(filter *Filter) *Aggregator {
	if filter == nil {
		filter = NewFilter("")
	}
	return &Aggregator{
		filter: filter,
		flows:  make(map[string]*FlowRecord),
	}
}

// Push upserts the frame's flow record if the filter accepts its key.
// Returns whether the frame was aggregated.
func (a *Aggregator) Push(frame *core.Frame) bool {
	key, ok := KeyFromFrame(frame)
	if !ok {
		return false
	}

	serialized := key.String()
	if !a.filter.Accepts(serialized) {
		metrics.FramesFiltered.Inc()
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	record, exists := a.flows[serialized]
	if !exists {
		a.flows[serialized] = &FlowRecord{
			Key:       key,
			Bytes:     int64(frame.Length),
			FirstSeen: frame.Timestamp,
			LastSeen:  frame.Timestamp,
		}
	} else {
		record.Bytes += int64(frame.Length)
		record.LastSeen = frame.Timestamp
	}

	metrics.FramesAggregated.Inc()
	return true
}

// SnapshotAndClear moves the whole mapping out, leaving the aggregator
// empty.
func (a *Aggregator) SnapshotAndClear() map[string]*FlowRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.flows
	a.flows = make(map[string]*FlowRecord)
	return snapshot
}

// Restore merges a snapshot back, used when a flush write fails so no data
// is dropped on transient filesystem errors.
func (a *Aggregator) Restore(snapshot map[string]*FlowRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, old := range snapshot {
		current, exists := a.flows[key]
		if !exists {
			a.flows[key] = old
			continue
		}
		current.Bytes += old.Bytes
		if old.FirstSeen.Before(current.FirstSeen) {
			current.FirstSeen = old.FirstSeen
		}
		if old.LastSeen.After(current.LastSeen) {
			current.LastSeen = old.LastSeen
		}
	}
}

// Len reports the number of distinct flows currently held.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.flows)
}
