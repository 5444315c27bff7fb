package model

// Writer defines a generic interface for persisting a batch of experiment
// results to a store.
type Writer interface {
	// Write persists all results of one analysis run under the given
	// batch timestamp.
	Write(results []*ExperimentResult, timestamp string) error
}
