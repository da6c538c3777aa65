package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"reverbkit/internal/config"
	"reverbkit/internal/workflow"
)

type reverberateFlags struct {
	rirList            string
	noiseList          string
	numReplicas        int
	foregroundSNRs     string
	backgroundSNRs     string
	prefix             string
	speechRvb          float64
	pointSource        float64
	isotropic          float64
	maxNoisesPerMinute int
	randomSeed         int64
	smoothingWeight    float64
}

func newReverberateCommand(ctx *commandContext) *cobra.Command {
	var flags reverberateFlags

	cmd := &cobra.Command{
		Use:   "reverberate [flags] <in-data-dir> <out-data-dir>",
		Short: "Write reverberated / noisy replicas of a data directory",
		Long: "Reverberate the data directory with an option to add isotropic and point-source noises.\n" +
			"Flags override the matching configuration values for this run only.",
		Example: "  reverbkit reverberate --rir-list-file rir_list --noise-list-file noise_list \\\n" +
			"    --foreground-snrs 20:10:15:5:0 --background-snrs 20:10:15:5:0 \\\n" +
			"    --speech-rvb-probability 1 --num-replications 2 --random-seed 1 data/train data/train_rvb",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if err := flags.apply(cmd.Flags(), &runCfg); err != nil {
				return err
			}
			if err := runCfg.ValidateForRun(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			summary, err := workflow.Run(cmd.Context(), &runCfg, workflow.Request{InputDir: args[0], OutputDir: args[1]}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, warning := range summary.Warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			fmt.Fprintf(out, "Wrote %d utterances (%d recordings x %d replicas) to %s: %d reverberated, %d noises added [%s]\n",
				summary.Outputs, summary.Recordings, summary.Replicas, args[1],
				summary.Reverberated, summary.NoiseEvents, strings.Join(summary.Files, ", "))
			return nil
		},
	}

	defaults := config.Default().Replication
	fs := cmd.Flags()
	fs.StringVar(&flags.rirList, "rir-list-file", "", "Impulse response catalog (overrides catalogs.rir_list)")
	fs.StringVar(&flags.noiseList, "noise-list-file", "", "Noise catalog (overrides catalogs.noise_list)")
	fs.IntVar(&flags.numReplicas, "num-replications", defaults.NumReplicas, "Number of replicas to generate")
	fs.StringVar(&flags.foregroundSNRs, "foreground-snrs", config.FormatSNRList(defaults.ForegroundSNRs), "Colon-separated SNRs cycled through for foreground noises")
	fs.StringVar(&flags.backgroundSNRs, "background-snrs", config.FormatSNRList(defaults.BackgroundSNRs), "Colon-separated SNRs cycled through for background noises")
	fs.StringVar(&flags.prefix, "prefix", "", "Replica id prefix; \"rvb\" is used when more than one replica is requested")
	fs.Float64Var(&flags.speechRvb, "speech-rvb-probability", defaults.SpeechRvbProbability, "Probability of reverberating a speech signal")
	fs.Float64Var(&flags.pointSource, "pointsource-noise-addition-probability", defaults.PointSourceNoiseAdditionProbability, "Probability of adding point-source noises")
	fs.Float64Var(&flags.isotropic, "isotropic-noise-addition-probability", defaults.IsotropicNoiseAdditionProbability, "Probability of adding isotropic noises")
	fs.IntVar(&flags.maxNoisesPerMinute, "max-noises-per-minute", defaults.MaxNoisesPerMinute, "Maximum point-source noises per minute of recording")
	fs.Int64Var(&flags.randomSeed, "random-seed", defaults.RandomSeed, "Seed for impulse response and noise selection")
	fs.Float64Var(&flags.smoothingWeight, "smoothing-weight", defaults.SmoothingWeight, "Share of the uniform distribution blended into catalog weights")

	return cmd
}

// apply copies explicitly set flags onto cfg. Unset flags keep the values
// from the configuration file.
func (f *reverberateFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	r := &cfg.Replication
	for _, target := range []struct {
		flag  string
		value string
		dst   *string
	}{
		{"rir-list-file", f.rirList, &cfg.Catalogs.RIRList},
		{"noise-list-file", f.noiseList, &cfg.Catalogs.NoiseList},
	} {
		if !fs.Changed(target.flag) {
			continue
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(target.value))
		if err != nil {
			return fmt.Errorf("--%s: %w", target.flag, err)
		}
		*target.dst = expanded
	}
	if fs.Changed("foreground-snrs") {
		snrs, err := config.ParseSNRList(f.foregroundSNRs)
		if err != nil {
			return fmt.Errorf("--foreground-snrs: %w", err)
		}
		r.ForegroundSNRs = snrs
	}
	if fs.Changed("background-snrs") {
		snrs, err := config.ParseSNRList(f.backgroundSNRs)
		if err != nil {
			return fmt.Errorf("--background-snrs: %w", err)
		}
		r.BackgroundSNRs = snrs
	}
	if fs.Changed("num-replications") {
		r.NumReplicas = f.numReplicas
	}
	if fs.Changed("prefix") {
		r.Prefix = strings.TrimSpace(f.prefix)
	}
	if fs.Changed("speech-rvb-probability") {
		r.SpeechRvbProbability = f.speechRvb
	}
	if fs.Changed("pointsource-noise-addition-probability") {
		r.PointSourceNoiseAdditionProbability = f.pointSource
	}
	if fs.Changed("isotropic-noise-addition-probability") {
		r.IsotropicNoiseAdditionProbability = f.isotropic
	}
	if fs.Changed("max-noises-per-minute") {
		r.MaxNoisesPerMinute = f.maxNoisesPerMinute
	}
	if fs.Changed("random-seed") {
		r.RandomSeed = f.randomSeed
	}
	if fs.Changed("smoothing-weight") {
		r.SmoothingWeight = f.smoothingWeight
	}
	return nil
}
