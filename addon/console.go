package addon

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/SynapticNetworks/hummus/snntypes"
)

var (
	consoleLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	consoleValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Console is a non-interactive run dashboard: it prints a styled one-line
// summary at every pattern boundary (pattern number and running spike count) and
// at completion (final tally). It never blocks on input, unlike the
// donor's GUI observer which rendezvouses with the core on on_start — this
// is meant for headless CLI runs (spec.md §4.4, the "analysis" addon
// family).
type Console struct {
	BaseAddon
	out     io.Writer
	patterns int
	spikes   int
}

// NewConsole writes its summary lines to out (typically os.Stdout).
func NewConsole(out io.Writer) *Console {
	return &Console{BaseAddon: NewBaseAddon(nil), out: out}
}

func (c *Console) NeuronFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	c.spikes++
}

func (c *Console) OnPatternEnd(net Network) {
	c.patterns++
	fmt.Fprintf(c.out, "%s %s  %s %s\n",
		consoleLabelStyle.Render("pattern"), consoleValueStyle.Render(fmt.Sprintf("%d", c.patterns)),
		consoleLabelStyle.Render("spikes"), consoleValueStyle.Render(fmt.Sprintf("%d", c.spikes)),
	)
}

func (c *Console) OnCompleted(net Network) {
	fmt.Fprintf(c.out, "%s %s %s (%s)\n",
		consoleLabelStyle.Render("run complete —"),
		consoleValueStyle.Render(fmt.Sprintf("%d", c.patterns)),
		consoleLabelStyle.Render("patterns,"),
		consoleValueStyle.Render(fmt.Sprintf("%d spikes", c.spikes)),
	)
}
