package publisher

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/model"
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

// Publisher pushes analyzed experiment results to a NATS subject for
// downstream report renderers.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.PublisherConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish serializes one experiment result to JSON and publishes it to the
// configured NATS subject.
func (p *Publisher) Publish(result *model.ExperimentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// PublishBatch publishes every result of a run, one message per experiment.
func (p *Publisher) PublishBatch(results []*model.ExperimentResult) error {
	for _, result := range results {
		if err := p.Publish(result); err != nil {
			return err
		}
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
