package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// NewAnalyseCmd creates the analyse command.
func NewAnalyseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyse <original> <explanation>",
		Aliases: []string{"analyze"},
		Short:   "Score one explanation against the tumour in its slice",
		Long: `Analyse locates the tumour in the original slice and scores the explanation
overlay for the given method. The explanation must have the same size as
the (prepared) slice.

Example:
  xai-saliency analyse --method gradcam --prepare slice.jpg gradcam-overlay.png`,
		Args: cobra.ExactArgs(2),
		RunE: runAnalyseCmd,
	}

	cmd.Flags().StringP("method", "m", "", "Explanation method: lime, shap or gradcam (required)")
	cmd.Flags().BoolP("prepare", "p", false, "Skull-strip and resize the original before locating")
	cmd.Flags().BoolP("json", "j", false, "Print scores as JSON")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func runAnalyseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("method")
	prepare, _ := cmd.Flags().GetBool("prepare")
	asJSON, _ := cmd.Flags().GetBool("json")

	m, err := saliency.ParseMethod(name)
	if err != nil {
		return err
	}
	original, err := readScan(args[0], prepare, cfg.ImageSize)
	if err != nil {
		return err
	}
	explanation, err := imaging.Decode(args[1])
	if err != nil {
		return err
	}

	an, err := saliency.NewAnalyser(original, explanation, m, cfg.Locator())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(an.Scores())
	}
	_, err = fmt.Fprintln(w, an.Results())
	return err
}
