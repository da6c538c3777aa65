package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"

	"reverbkit/internal/catalog"
	"reverbkit/internal/config"
	"reverbkit/internal/services"
)

type roomView struct {
	ID          string  `json:"id"`
	RIRs        int     `json:"rirs"`
	Probability float64 `json:"probability"`
}

type rirView struct {
	ID             string   `json:"id"`
	RoomID         string   `json:"room_id"`
	RT60           *float64 `json:"rt60,omitempty"`
	DRR            *float64 `json:"drr,omitempty"`
	RawProbability *float64 `json:"raw_probability,omitempty"`
	Probability    float64  `json:"probability"`
	Location       string   `json:"location"`
}

type noiseView struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	Role           string   `json:"role"`
	RIRID          string   `json:"rir_id,omitempty"`
	RawProbability *float64 `json:"raw_probability,omitempty"`
	Probability    float64  `json:"probability"`
	Location       string   `json:"location"`
}

type inspectReport struct {
	Smoothing float64     `json:"smoothing_weight"`
	Rooms     []roomView  `json:"rooms"`
	RIRs      []rirView   `json:"rirs"`
	Noises    []noiseView `json:"noises,omitempty"`
	Orphaned  []string    `json:"orphaned_isotropic_noises,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var rirList, noiseList string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show catalog selection weights after smoothing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rirPath, noisePath, err := catalogPaths(cmd, cfg, rirList, noiseList)
			if err != nil {
				return err
			}
			report, err := buildInspectReport(rirPath, noisePath, cfg.Replication.SmoothingWeight)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			return writeInspectReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&rirList, "rir-list-file", "", "Impulse response catalog (overrides catalogs.rir_list)")
	cmd.Flags().StringVar(&noiseList, "noise-list-file", "", "Noise catalog (overrides catalogs.noise_list)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func catalogPaths(cmd *cobra.Command, cfg *config.Config, rirFlag, noiseFlag string) (string, string, error) {
	rirPath, noisePath := cfg.Catalogs.RIRList, cfg.Catalogs.NoiseList
	var err error
	if cmd.Flags().Changed("rir-list-file") {
		if rirPath, err = config.ExpandPath(strings.TrimSpace(rirFlag)); err != nil {
			return "", "", err
		}
	}
	if cmd.Flags().Changed("noise-list-file") {
		if noisePath, err = config.ExpandPath(strings.TrimSpace(noiseFlag)); err != nil {
			return "", "", err
		}
	}
	if rirPath == "" {
		return "", "", services.Wrap(services.ErrConfiguration, "inspect", "catalogs", "no rir list configured (set catalogs.rir_list or pass --rir-list-file)", nil)
	}
	return rirPath, noisePath, nil
}

func buildInspectReport(rirPath, noisePath string, smoothing float64) (inspectReport, error) {
	rirs, err := catalog.LoadRIRList(rirPath, smoothing)
	if err != nil {
		return inspectReport{}, err
	}
	rooms, err := catalog.BuildRoomIndex(rirs)
	if err != nil {
		return inspectReport{}, err
	}

	report := inspectReport{Smoothing: smoothing}
	for _, room := range rooms.Rooms() {
		report.Rooms = append(report.Rooms, roomView{ID: room.ID, RIRs: len(room.RIRs), Probability: room.Probability})
	}
	for _, rir := range rirs {
		report.RIRs = append(report.RIRs, rirView{
			ID:             rir.ID,
			RoomID:         rir.RoomID,
			RT60:           rir.RT60,
			DRR:            rir.DRR,
			RawProbability: rir.RawProbability,
			Probability:    rir.Probability,
			Location:       rir.Location,
		})
	}

	if noisePath == "" {
		return report, nil
	}
	noises, err := catalog.LoadNoiseList(noisePath, smoothing)
	if err != nil {
		return inspectReport{}, err
	}
	for _, group := range [][]*catalog.Noise{noises.PointSource, noises.Isotropic} {
		for _, noise := range group {
			report.Noises = append(report.Noises, noiseView{
				ID:             noise.ID,
				Kind:           string(noise.Kind),
				Role:           string(noise.Role),
				RIRID:          noise.RIRID,
				RawProbability: noise.RawProbability,
				Probability:    noise.Probability,
				Location:       noise.Location,
			})
		}
	}
	for _, noise := range noises.OrphanedIsotropic(rirs) {
		report.Orphaned = append(report.Orphaned, noise.ID)
	}
	return report, nil
}

func writeInspectReport(out io.Writer, report inspectReport) error {
	title := cases.Title(language.Und)

	roomRows := make([][]string, 0, len(report.Rooms))
	roomWeights := make([]float64, 0, len(report.Rooms))
	for _, room := range report.Rooms {
		roomRows = append(roomRows, []string{room.ID, strconv.Itoa(room.RIRs), formatWeight(room.Probability)})
		roomWeights = append(roomWeights, room.Probability)
	}
	fmt.Fprintf(out, "Rooms (%d, total weight %s)\n", len(report.Rooms), formatWeight(floats.Sum(roomWeights)))
	fmt.Fprint(out, renderTable(out, []string{"Room", "RIRs", "Weight"}, roomRows, []columnAlignment{alignLeft, alignRight, alignRight}))

	rirRows := make([][]string, 0, len(report.RIRs))
	for _, rir := range report.RIRs {
		rirRows = append(rirRows, []string{rir.ID, rir.RoomID, formatOptional(rir.RT60), formatOptional(rir.RawProbability), formatWeight(rir.Probability), rir.Location})
	}
	fmt.Fprintf(out, "\nImpulse responses (%d, smoothing %s)\n", len(report.RIRs), formatWeight(report.Smoothing))
	fmt.Fprint(out, renderTable(out, []string{"RIR", "Room", "RT60", "Raw", "Weight", "Location"}, rirRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}))

	if len(report.Noises) == 0 {
		return nil
	}
	noiseRows := make([][]string, 0, len(report.Noises))
	for _, noise := range report.Noises {
		noiseRows = append(noiseRows, []string{noise.ID, title.String(noise.Kind), title.String(noise.Role), noise.RIRID, formatOptional(noise.RawProbability), formatWeight(noise.Probability), noise.Location})
	}
	fmt.Fprintf(out, "\nNoises (%d)\n", len(report.Noises))
	fmt.Fprint(out, renderTable(out, []string{"Noise", "Kind", "Role", "RIR", "Raw", "Weight", "Location"}, noiseRows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
	if len(report.Orphaned) > 0 {
		fmt.Fprintf(out, "\nwarning: isotropic noises linked to unknown impulse responses: %s\n", strings.Join(report.Orphaned, ", "))
	}
	return nil
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
