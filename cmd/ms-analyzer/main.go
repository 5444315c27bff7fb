package main

import (
	"MPTCPSpectra/internal/alerter"
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/engine/aggregator"
	"MPTCPSpectra/internal/model"
	"MPTCPSpectra/internal/notification"
	"MPTCPSpectra/internal/publisher"
	"MPTCPSpectra/internal/storage"
	"log"
	"os"
	"time"
)

func main() {
	log.Println("Starting ms-analyzer...")

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// Run the batch. A fatal error aborts discovery, but results collected
	// before the failure are still written out below.
	results, runErr := aggregator.New(cfg.Analyzer).Run()
	if runErr != nil {
		log.Printf("Batch aborted: %v", runErr)
	}
	if len(results) == 0 {
		log.Println("No experiment data found.")
		if runErr != nil {
			os.Exit(1)
		}
		return
	}
	log.Printf("Analyzed %d experiments.", len(results))

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	for _, writer := range buildWriters(cfg) {
		if err := writer.Write(results, timestamp); err != nil {
			log.Printf("Error writing results: %v", err)
		}
	}

	if cfg.Publisher.Enabled {
		pub, err := publisher.NewPublisher(cfg.Publisher)
		if err != nil {
			log.Printf("Failed to create publisher: %v", err)
		} else {
			if err := pub.PublishBatch(results); err != nil {
				log.Printf("Error publishing results: %v", err)
			}
			pub.Close()
		}
	}

	if cfg.Alerter.Enabled {
		var notifier model.Notifier
		if cfg.SMTP.Host != "" { // Simple check to see if email is configured
			notifier = notification.NewEmailNotifier(cfg.SMTP)
		}
		if err := alerter.NewAlerter(&cfg.Alerter, notifier).EvaluateAndNotify(results); err != nil {
			log.Printf("Alerter error: %v", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	log.Println("Analysis complete.")
}

// buildWriters instantiates every enabled writer from the config.
func buildWriters(cfg *config.Config) []model.Writer {
	var writers []model.Writer
	for _, writerDef := range cfg.Writers {
		if !writerDef.Enabled {
			continue
		}
		switch writerDef.Type {
		case "gob":
			writers = append(writers, storage.NewGobWriter(writerDef.Gob.RootPath))
		case "clickhouse":
			writer, err := storage.NewClickHouseWriter(writerDef.ClickHouse)
			if err != nil {
				log.Printf("Warning: failed to create writer type '%s': %v, skipping.", writerDef.Type, err)
				continue
			}
			writers = append(writers, writer)
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
		}
	}
	return writers
}
