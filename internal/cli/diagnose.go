package cli

import (
	"fmt"
	"strings"

	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/pkg/models"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run a one-shot diagnosis from flags",
	Long: `Run the diagnostic inference without the interactive wizard.

The category and observable accept either the name (case-insensitive) or
the 1-based index shown by 'dgw kb categories' and 'dgw kb symptoms'.
Answers are given as repeated --answer key=value flags; 'true' and 'false'
are treated as booleans, everything else as text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryChoice, _ := cmd.Flags().GetString("category")
		observableChoice, _ := cmd.Flags().GetString("observable")
		rawAnswers, _ := cmd.Flags().GetStringArray("answer")
		showTrace, _ := cmd.Flags().GetBool("trace")

		kb, err := loadKB()
		if err != nil {
			return err
		}

		category, ok := core.SelectCategory(kb, categoryChoice)
		if !ok {
			return fmt.Errorf("category %q not found", categoryChoice)
		}
		observable, ok := core.SelectObservable(kb, category, observableChoice)
		if !ok {
			return fmt.Errorf("observable %q not found in category %q", observableChoice, category)
		}

		answers, err := parseAnswers(rawAnswers)
		if err != nil {
			return err
		}

		diagnosis := core.Diagnose(kb, category, observable, answers)

		if Events != nil {
			_ = Events.Write(observability.DiagnosisEvent(
				category, observable, diagnosis.Cause, !diagnosis.Undetermined(), len(diagnosis.Trace)))
		}

		printDiagnosis(diagnosis, showTrace)
		return nil
	},
}

// parseAnswers converts key=value flag pairs into an answer set. The literal
// values true/false become booleans; everything else stays text so the
// classifier sees what the user typed.
func parseAnswers(pairs []string) (models.AnswerSet, error) {
	answers := make(models.AnswerSet, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid answer %q: expected key=value", pair)
		}
		switch value {
		case "true":
			answers[key] = models.BoolAnswer(true)
		case "false":
			answers[key] = models.BoolAnswer(false)
		default:
			answers[key] = models.TextAnswer(value)
		}
	}
	return answers, nil
}

func init() {
	diagnoseCmd.Flags().String("category", "", "Category name or 1-based index")
	diagnoseCmd.Flags().String("observable", "", "Observable symptom name or 1-based index")
	diagnoseCmd.Flags().StringArray("answer", nil, "Answer as key=value (repeatable)")
	diagnoseCmd.Flags().Bool("trace", false, "Print the per-rule evaluation trace")
	_ = diagnoseCmd.MarkFlagRequired("category")
	_ = diagnoseCmd.MarkFlagRequired("observable")

	rootCmd.AddCommand(diagnoseCmd)
}
