package neuron

// Kind is the closed set of neuron state machines (spec.md §3). As with
// synapse.KernelKind, this collapses what the donor project modeled as a
// goroutine-per-neuron with channel-based message passing
// (neuron/neuron.go's "Message represents a signal transmitted between
// neurons") into a single tagged struct dispatched on Kind — the
// event-driven core calls Update/UpdateSync directly instead of posting to
// a channel, per the single-threaded redesign in spec.md §5/§9.
type Kind int

const (
	KindParrot Kind = iota
	KindCUBALIF
	KindULPECInput
	KindULPECLIF
	KindDecision
	KindRegression
)

func (k Kind) String() string {
	switch k {
	case KindParrot:
		return "Parrot"
	case KindCUBALIF:
		return "CUBA-LIF"
	case KindULPECInput:
		return "ULPEC-Input"
	case KindULPECLIF:
		return "ULPEC-LIF"
	case KindDecision:
		return "Decision"
	case KindRegression:
		return "Regression"
	default:
		return "Unknown"
	}
}
