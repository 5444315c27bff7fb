// Package capture summarizes packet captures recorded alongside an
// experiment dump. The summary is advisory detail for the report layer;
// throughput analysis never depends on it.
package capture

import (
	"MPTCPSpectra/internal/engine/protocol"
	"MPTCPSpectra/internal/model"
	"log"
	"sort"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Reader reads packets from a pcap file.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// Summarize reads the whole capture and tallies packets and bytes per
// subflow. Packets the parser rejects are skipped; they are usually ARP or
// ICMP noise from the emulation. Subflows are sorted by key so the summary
// is identical across runs.
func (r *Reader) Summarize() *model.CaptureSummary {
	acc := NewAccumulator()
	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		rec, err := protocol.ParseSubflow(packet)
		if err != nil {
			continue
		}
		acc.Add(rec)
	}
	return acc.Summary()
}

// Accumulator builds a CaptureSummary from subflow records.
type Accumulator struct {
	subflows map[string]*model.SubflowCapture
	first    time.Time
	last     time.Time
	packets  uint64
	bytes    uint64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{subflows: make(map[string]*model.SubflowCapture)}
}

// Add tallies one parsed packet.
func (a *Accumulator) Add(rec *protocol.SubflowRecord) {
	sf, ok := a.subflows[rec.Key]
	if !ok {
		sf = &model.SubflowCapture{Key: rec.Key}
		a.subflows[rec.Key] = sf
	}
	sf.Packets++
	sf.Bytes += uint64(rec.Length)
	a.packets++
	a.bytes += uint64(rec.Length)

	if !rec.Timestamp.IsZero() {
		if a.first.IsZero() || rec.Timestamp.Before(a.first) {
			a.first = rec.Timestamp
		}
		if rec.Timestamp.After(a.last) {
			a.last = rec.Timestamp
		}
	}
}

// Summary finalizes the accumulated tallies.
func (a *Accumulator) Summary() *model.CaptureSummary {
	summary := &model.CaptureSummary{
		Packets: a.packets,
		Bytes:   a.bytes,
	}
	if !a.first.IsZero() {
		summary.Duration = a.last.Sub(a.first).Seconds()
	}

	keys := make([]string, 0, len(a.subflows))
	for k := range a.subflows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		summary.Subflows = append(summary.Subflows, *a.subflows[k])
	}
	return summary
}

// SummarizeFile is a convenience wrapper that opens, summarizes and closes
// a capture file.
func SummarizeFile(path string) (*model.CaptureSummary, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	summary := reader.Summarize()
	log.Printf("Summarized %d packets (%d subflows) from '%s'", summary.Packets, len(summary.Subflows), path)
	return summary, nil
}
