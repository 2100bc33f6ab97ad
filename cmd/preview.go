package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qaforge/qaforge/internal/qagen"
	"github.com/qaforge/qaforge/internal/seed"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the prompt for a seed without calling the model",
	Long: `Render the exact prompt that would be sent for one seed pair.

This is a stateless developer tool: no network calls, no event log.
Useful for tuning prompt templates before committing to a full run.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("input", "i", "", "Seed file (required)")
	previewCmd.Flags().Int("index", 0, "Zero-based seed row to preview")
	previewCmd.Flags().String("template", "topical", "Prompt template")
	previewCmd.Flags().Int("count", 5, "Records to request per seed")
	_ = previewCmd.MarkFlagRequired("input")
}

func runPreview(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	index, _ := cmd.Flags().GetInt("index")
	templateVal, _ := cmd.Flags().GetString("template")
	count, _ := cmd.Flags().GetInt("count")

	template, err := qagen.TemplateByName(templateVal)
	if err != nil {
		return err
	}

	seeds, err := seed.Read(input)
	if err != nil {
		return fmt.Errorf("read seeds: %w", err)
	}
	if index < 0 || index >= len(seeds) {
		return fmt.Errorf("seed index %d out of range (file has %d seed pairs)", index, len(seeds))
	}

	s := seeds[index]
	fmt.Printf("Seed %d: Category %q, Topic %q\n", index, s.Category, s.Topic)
	fmt.Printf("Template: %s (temperature %.1f)\n\n", template.Name, template.DefaultTemperature)
	fmt.Println(template.Build(s.Category, s.Topic, count))
	return nil
}
