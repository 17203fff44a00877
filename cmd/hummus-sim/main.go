/*
Command hummus-sim is a small CLI demo wiring the simulator core end to
end: it builds a two-layer CUBA-LIF network, drives it with a handful of
synthetic spikes, and prints a run summary. It exists to exercise the
public facade from outside the module, not to be a serious dataset
runner — real dataset ingestion is an external collaborator (spec.md §6).

Grounded on the donor project's cmd/ wiring style: cobra for flag
parsing, the demo owning construction while the library owns behavior.
Two subcommands are exposed, `run` and `validate-config` (spec.md §6:
"flags only for: dataset path, run mode, dt, t_max, seed"); both accept
the same five flags layered on top of an optional --config TOML file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/config"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/network"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
	"github.com/SynapticNetworks/hummus/topology"
)

// runFlags holds the CLI flag values shared by the run and validate-config
// subcommands.
type runFlags struct {
	configPath  string
	datasetPath string
	mode        string
	dt          float64
	tMax        float64
	seed        int64
}

// bind registers the five flags spec.md §6 names onto cmd.
func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a TOML run configuration")
	cmd.Flags().StringVar(&f.datasetPath, "dataset-path", "", "path to the dataset directory")
	cmd.Flags().StringVar(&f.mode, "mode", "", "run mode: event or clock")
	cmd.Flags().Float64Var(&f.dt, "dt", 0, "clock-driven tick size")
	cmd.Flags().Float64Var(&f.tMax, "t-max", 0, "simulation end time")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "RNG seed")
}

// resolve loads configPath (if given) over config.Default(), then overlays
// any flag the caller actually set on cmd so a bare --dt or --seed can
// override a loaded file without rewriting the whole TOML document.
func (f *runFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("dataset-path") {
		cfg.DatasetPath = f.datasetPath
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = f.mode
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = f.dt
	}
	if cmd.Flags().Changed("t-max") {
		cfg.TMax = f.tMax
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	return cfg, nil
}

func main() {
	root := &cobra.Command{
		Use:   "hummus-sim",
		Short: "Run a small spiking-network demo",
	}

	var rf runFlags
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build the demo network and drive it to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	rf.bind(runCmd)

	var vf runFlags
	validateCmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate a run configuration without simulating",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := vf.resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("config OK: mode=%s dt=%g t_max=%g seed=%d\n", cfg.Mode, cfg.Dt, cfg.TMax, cfg.Seed)
			return nil
		},
	}
	vf.bind(validateCmd)

	root.AddCommand(runCmd, validateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run builds a small feed-forward parrot -> CUBA-LIF network, injects one
// spike per input neuron, and drives it to completion. cfg.DatasetPath is
// accepted but unused here: real dataset ingestion is an external
// collaborator (spec.md §6, "Non-goals"; see the dataset package).
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	net := network.New(cfg.Mode == "event", cfg.Seed)
	net.RegisterAddon(addon.NewConsole(os.Stdout))

	input := topology.MakeLayer(net, 4, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 2, neuron.KindCUBALIF)

	inputAxon := make(map[int]uint32, len(input.Neurons))
	for i, preID := range input.Neurons {
		for _, postID := range hidden.Neurons {
			synID, err := net.NewSynapse(preID, postID, synapse.Config{
				Weight: 0.6,
				Kernel: synapse.KernelDirac,
			})
			if err != nil {
				return err
			}
			if _, seen := inputAxon[i]; !seen {
				inputAxon[i] = uint32(synID)
			}
		}
	}

	for _, h := range hidden.Neurons {
		nrn := net.NeuronPtr(h)
		nrn.Threshold = 1.0
		nrn.Capacitance = 1.0
		nrn.LeakConductance = 1.0
		nrn.RefractoryPeriod = 0.05
	}

	if err := net.Initialise(); err != nil {
		return err
	}

	for i := range input.Neurons {
		net.InjectSpike(float64(i)*0.01, snntypes.SynapseID(inputAxon[i]))
	}

	net.Run(cfg.TMax, cfg.Dt)

	if cfg.SavePath != "" {
		if err := net.Save(cfg.SavePath); err != nil {
			return err
		}
	}
	return nil
}
