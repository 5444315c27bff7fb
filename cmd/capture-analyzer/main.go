package main

import (
	"MPTCPSpectra/pkg/capture"
	"fmt"
	"log"
	"os"
)

func main() {
	// 1. Get pcap file path from command-line arguments
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/capture-analyzer/main.go <path_to_pcap_file>")
		os.Exit(1)
	}
	pcapFilePath := os.Args[1]

	summary, err := capture.SummarizeFile(pcapFilePath)
	if err != nil {
		log.Fatalf("Failed to summarize capture: %v", err)
	}

	fmt.Printf("Capture: %s\n", pcapFilePath)
	fmt.Printf("  Packets:  %d\n", summary.Packets)
	fmt.Printf("  Bytes:    %d\n", summary.Bytes)
	fmt.Printf("  Duration: %.2fs\n", summary.Duration)
	fmt.Printf("  Subflows: %d\n", len(summary.Subflows))
	for _, sf := range summary.Subflows {
		fmt.Printf("    %-45s %8d pkts %12d bytes\n", sf.Key, sf.Packets, sf.Bytes)
	}
}
