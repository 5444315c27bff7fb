package protocol

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func serialize(t *testing.T, transport gopacket.SerializableLayer, ip *layers.IPv4) gopacket.Packet {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeIPv4,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	payload := gopacket.Payload([]byte("mptcp test payload"))
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, transport, payload); err != nil {
		t.Fatalf("Failed to serialize packet: %v", err)
	}
	return gopacket.NewPacket(buf.Bytes(), layers.LayerTypeEthernet, gopacket.Default)
}

func TestParseSubflow(t *testing.T) {
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{10, 0, 0, 2},
		Protocol: layers.IPProtocolTCP,
	}
	tcp := &layers.TCP{SrcPort: 5001, DstPort: 40000, SYN: true}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("Failed to set network layer: %v", err)
	}

	rec, err := ParseSubflow(serialize(t, tcp, ip))
	if err != nil {
		t.Fatalf("ParseSubflow failed: %v", err)
	}
	if rec.Key != "10.0.0.1:5001->10.0.0.2:40000" {
		t.Errorf("Unexpected subflow key: %q", rec.Key)
	}
	if rec.Length == 0 {
		t.Error("Packet length should not be 0")
	}
}

func TestParseSubflow_RejectsNonTCP(t *testing.T) {
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{10, 0, 0, 2},
		Protocol: layers.IPProtocolUDP,
	}
	udp := &layers.UDP{SrcPort: 53, DstPort: 12345}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("Failed to set network layer: %v", err)
	}

	if _, err := ParseSubflow(serialize(t, udp, ip)); err == nil {
		t.Fatal("Expected an error for a UDP packet")
	}
}
