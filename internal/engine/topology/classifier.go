// Package topology maps experiment names to the network topology they ran
// on. The dump directories produced by the emulation scripts encode the
// topology in their name; that naming convention is the only classification
// signal available, so it must be kept stable on both sides.
package topology

import (
	"MPTCPSpectra/internal/model"
	"strings"
)

// rule pairs a name predicate with a descriptor factory. Rules are
// evaluated in order; the last rule matches everything.
type rule struct {
	matches func(name string) bool
	build   func() model.TopologyDescriptor
}

func contains(substrings ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range substrings {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

var rules = []rule{
	{matches: contains("wireless"), build: wirelessDualPath},
	{matches: contains("mega", "dumbbell"), build: megaDumbbell},
	{matches: func(string) bool { return true }, build: defaultDualPath},
}

// Classify returns the topology descriptor for an experiment name. It is a
// pure function: matching is case-insensitive, evaluated in fixed priority
// order, and unknown names always fall through to the default dual path.
func Classify(name string) model.TopologyDescriptor {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if r.matches(lower) {
			return r.build()
		}
	}
	// Unreachable: the last rule always matches.
	return defaultDualPath()
}

// Descriptors are built per call so callers can never alias each other's
// path slices.

func wirelessDualPath() model.TopologyDescriptor {
	return model.TopologyDescriptor{
		Type:        "Wireless-like Dual Path",
		Description: "H1 <-> R1 <-> R2 <-> H2 with dual paths (reliable + lossy)",
		Paths: []model.PathDescriptor{
			{Name: "Path 1 (Reliable)", Capacity: 10, Latency: "5ms", Loss: "0%"},
			{Name: "Path 2 (Wireless-like)", Capacity: 8, Latency: "25ms", Loss: "0.1-75% (Gilbert-Elliot)"},
		},
		TheoreticalMax:   18.0,
		BackboneCapacity: "100 Mbit/s",
	}
}

func megaDumbbell() model.TopologyDescriptor {
	return model.TopologyDescriptor{
		Type:        "Mega Dumbbell",
		Description: "Complex dumbbell topology with multiple hosts and routers",
		Paths: []model.PathDescriptor{
			{Name: "Primary Paths", Capacity: 10, Latency: "10ms", Loss: "0%"},
			{Name: "Secondary Paths", Capacity: 10, Latency: "10ms", Loss: "0%"},
		},
		TheoreticalMax:   20.0,
		BackboneCapacity: "1000 Mbit/s",
	}
}

func defaultDualPath() model.TopologyDescriptor {
	return model.TopologyDescriptor{
		Type:        "Default Dual Path",
		Description: "H1 <-> R1 <-> R2 <-> H2 with dual reliable paths",
		Paths: []model.PathDescriptor{
			{Name: "Path 1", Capacity: 5, Latency: "10ms", Loss: "0%"},
			{Name: "Path 2", Capacity: 5, Latency: "10ms", Loss: "0%"},
		},
		TheoreticalMax:   10.0,
		BackboneCapacity: "100 Mbit/s",
	}
}
