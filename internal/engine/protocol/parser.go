package protocol

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// SubflowRecord is one captured packet attributed to an MPTCP subflow.
// The key is the endpoint pair in the same "src:port->dst:port" shape the
// netperf dumps use for flow keys.
type SubflowRecord struct {
	Key       string
	Timestamp time.Time
	Length    int
}

// ParseSubflow decodes a captured packet into a subflow record. MPTCP
// subflows are plain TCP connections on the wire, so anything that is not
// IPv4 TCP is rejected.
func ParseSubflow(packet gopacket.Packet) (*SubflowRecord, error) {
	rec := &SubflowRecord{Length: len(packet.Data())}
	if meta := packet.Metadata(); meta != nil {
		rec.Timestamp = meta.Timestamp
	}

	ipLayer := packet.Layer(layers.LayerTypeIPv4)
	if ipLayer == nil {
		return nil, fmt.Errorf("not an IPv4 packet")
	}
	ip := ipLayer.(*layers.IPv4)

	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return nil, fmt.Errorf("not a TCP packet")
	}
	tcp := tcpLayer.(*layers.TCP)

	rec.Key = fmt.Sprintf("%s:%d->%s:%d", ip.SrcIP, tcp.SrcPort, ip.DstIP, tcp.DstPort)
	return rec, nil
}
