// Package dataset defines the contract the Network facade's run_data and
// run_es_database entry points consume (spec.md §6, "Dataset input").
// Concrete loaders (directory-of-.es-files, .npy spike files with a
// sidecar label file) are intentionally not implemented here — they are
// an external collaborator this module is built against, the same way
// the original spec's Non-goals exclude dataset parsing from the core.
package dataset

import "github.com/SynapticNetworks/hummus/event"

// Pattern is one labeled presentation: the spikes to inject (already
// resolved to synapse ids and relative timestamps) and the ground-truth
// label for accuracy bookkeeping.
type Pattern struct {
	Label  string
	Events []event.Event
}

// Source yields patterns for run_data and reports the class_map this
// source's labels were assigned (spec.md §6, "yields dataset{files,
// labels, class_map}").
type Source interface {
	Next() (Pattern, bool)
	Classes() map[string]int
}

// ESDatabase names the train/test file collaborator run_es_database
// consumes; a concrete implementation resolves these paths into Source
// values.
type ESDatabase interface {
	Train() (Source, error)
	Test() (Source, error)
}
