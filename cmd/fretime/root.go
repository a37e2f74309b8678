package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fretime/netfile"
	"github.com/katalvlaran/fretime/retime"
)

type options struct {
	output             string
	direction          string
	maxDelay           int
	fastConservative   bool
	maxIterations      int
	maxInitConstraints int
	initState          bool
	guaranteeInit      bool
	blockConst         bool
	check              bool
	verbose            bool
	debug              bool
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "fretime [flags] NETLIST",
		Short:        "Minimum-register retiming of a YAML netlist",
		Long:         "Moves the latches of a sequential netlist forward and backward to minimize their number, optionally under a combinational delay bound, and computes equivalent reset values.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logrus.WarnLevel)
			if o.verbose {
				logger.SetLevel(logrus.InfoLevel)
			}
			if o.debug {
				logger.SetLevel(logrus.DebugLevel)
			}
			return o.run(args[0], cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the retimed netlist here instead of stdout")
	cmd.Flags().StringVar(&o.direction, "direction", "both", "passes to run: both, forward or backward")
	cmd.Flags().IntVar(&o.maxDelay, "max-delay", 0, "combinational delay bound in gates; 0 disables delay-constrained retiming")
	cmd.Flags().BoolVar(&o.fastConservative, "fast-conservative", false, "under --max-delay, use only the conservative timing constraints")
	cmd.Flags().IntVar(&o.maxIterations, "max-iters", retime.DefaultOptions().MaxIterations, "iteration bound per pass")
	cmd.Flags().IntVar(&o.maxInitConstraints, "max-init-constraints", 0, "bound on recorded reset-state conflicts; 0 uses --max-iters")
	cmd.Flags().BoolVar(&o.initState, "init", true, "compute reset values of moved latches")
	cmd.Flags().BoolVar(&o.guaranteeInit, "guarantee-init", false, "retry backward retiming until a reset state exists")
	cmd.Flags().BoolVar(&o.blockConst, "block-const", false, "keep latches from moving backward past constants")
	cmd.Flags().BoolVar(&o.check, "check", false, "verify path latencies after every cut")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "log progress")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")

	return cmd
}

func parseDirection(s string) (retime.Direction, error) {
	switch s {
	case "both":
		return retime.Both, nil
	case "forward", "fwd":
		return retime.ForwardOnly, nil
	case "backward", "bwd":
		return retime.BackwardOnly, nil
	}
	return retime.Both, errors.Errorf("unknown direction %q", s)
}

func (o *options) run(path string, stdout io.Writer, logger *logrus.Logger) error {
	dir, err := parseDirection(o.direction)
	if err != nil {
		return err
	}
	n, err := netfile.ReadFile(path)
	if err != nil {
		return err
	}

	out, res, err := retime.MinRegRetime(n,
		retime.WithLogger(logger),
		retime.WithVerbose(o.verbose),
		retime.WithDirection(dir),
		retime.WithMaxDelay(o.maxDelay),
		retime.WithConservativeOnly(o.fastConservative),
		retime.WithMaxIterations(o.maxIterations),
		retime.WithMaxInitConstraints(o.maxInitConstraints),
		retime.WithInitState(o.initState),
		retime.WithGuaranteeInit(o.guaranteeInit),
		retime.WithBlockConst(o.blockConst),
		retime.WithCheck(o.check),
	)
	if err != nil {
		return errors.Wrap(err, "retiming failed")
	}
	logger.WithFields(logrus.Fields{
		"latches":  fmt.Sprintf("%d -> %d", res.InitialLatches, res.FinalLatches),
		"depth":    fmt.Sprintf("%d -> %d", res.InitialLevel, res.FinalLevel),
		"degraded": res.Degraded,
		"reverted": res.Reverted,
	}).Info("done")

	if o.output == "" {
		return netfile.Encode(stdout, out)
	}
	if err = netfile.WriteFile(o.output, out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "latches: %d -> %d\n", res.InitialLatches, res.FinalLatches)
	return err
}
