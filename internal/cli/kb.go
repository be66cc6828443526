package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/pkg/models"
	"github.com/spf13/cobra"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and extend the knowledge base",
	Long: `Inspect the active knowledge base (categories, symptoms, reusable
premise questions) and append new rules to the user knowledge base.`,
}

var kbCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List problem categories in document order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := loadKB()
		if err != nil {
			return err
		}
		names := kb.Categories.Names()
		if len(names) == 0 {
			fmt.Println("No categories in the knowledge base.")
			return nil
		}
		for i, name := range names {
			fmt.Printf("  %2d. %s\n", i+1, name)
		}
		return nil
	},
}

var kbSymptomsCmd = &cobra.Command{
	Use:   "symptoms <category>",
	Short: "List the observable symptoms of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := loadKB()
		if err != nil {
			return err
		}
		category, ok := core.SelectCategory(kb, args[0])
		if !ok {
			return fmt.Errorf("category %q not found", args[0])
		}
		symptoms, _ := kb.Categories.Symptoms(category)
		if len(symptoms) == 0 {
			fmt.Printf("No symptoms registered under %q.\n", category)
			return nil
		}
		fmt.Printf("%s:\n", category)
		for i, s := range symptoms {
			fmt.Printf("  %2d. %s\n", i+1, s)
		}
		return nil
	},
}

var kbPremisesCmd = &cobra.Command{
	Use:   "premises <category>",
	Short: "List reusable premise questions of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := loadKB()
		if err != nil {
			return err
		}
		category, ok := core.SelectCategory(kb, args[0])
		if !ok {
			return fmt.Errorf("category %q not found", args[0])
		}
		questions := core.PremisesByCategory(kb, category)
		if len(questions) == 0 {
			fmt.Printf("No reusable premises found for %q.\n", category)
			return nil
		}
		fmt.Printf("  %-28s %s\n", "KEY", "QUESTION")
		fmt.Printf("  %-28s %s\n", "---", "--------")
		for _, q := range questions {
			fmt.Printf("  %-28s %s\n", q.Key, q.Text)
		}
		return nil
	},
}

var kbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a proposed rule for logical duplicates",
	Long: `Check whether a rule with the given symptom and premise-key set would be
a logical duplicate of an existing rule. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		symptom, _ := cmd.Flags().GetString("symptom")
		premises, _ := cmd.Flags().GetStringSlice("premises")

		kb, err := loadKB()
		if err != nil {
			return err
		}

		dup, msg := core.CheckDuplicateRule(kb, symptom, premises)
		if dup {
			fmt.Printf("Rejected: %s\n", msg)
			return nil
		}
		fmt.Println("OK: no logically identical rule exists.")
		return nil
	},
}

var kbAddRuleCmd = &cobra.Command{
	Use:   "add-rule",
	Short: "Append a validated rule to the user knowledge base",
	Long: `Validate and append a new rule. The rule is rejected when required
fields are missing, when the premise set is empty, or when an existing rule
already uses exactly the same premise set for the same symptom. New symptoms
are appended to their category's list automatically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Ingestor == nil {
			return fmt.Errorf("rule ingestor not initialized")
		}

		category, _ := cmd.Flags().GetString("category")
		symptom, _ := cmd.Flags().GetString("symptom")
		hypothesis, _ := cmd.Flags().GetString("hypothesis")
		suggestion, _ := cmd.Flags().GetString("suggestion")
		premises, _ := cmd.Flags().GetStringSlice("premises")
		questionSpecs, _ := cmd.Flags().GetStringArray("question")
		actions, _ := cmd.Flags().GetStringArray("action")

		questions, err := parseQuestionSpecs(questionSpecs)
		if err != nil {
			return err
		}

		kb, err := loadKB()
		if err != nil {
			return err
		}

		rule, err := Ingestor.AddRule(kb, core.RuleSubmission{
			Category:     category,
			Symptom:      symptom,
			Hypothesis:   hypothesis,
			Suggestion:   suggestion,
			PremiseKeys:  premises,
			NewQuestions: questions,
			Actions:      actions,
		})
		var rejection *core.RejectionError
		if errors.As(err, &rejection) {
			fmt.Printf("Rejected: %s\n", rejection.Reason)
			return nil
		}
		if err != nil {
			return fmt.Errorf("adding rule: %w", err)
		}

		if Events != nil {
			_ = Events.Write(observability.RuleAddedEvent(rule.Symptom, rule.Hypothesis, len(rule.Premises)))
		}

		fmt.Printf("Rule %q added for symptom %q (%d premises).\n",
			rule.Hypothesis, rule.Symptom, len(rule.Premises))
		return nil
	},
}

// parseQuestionSpecs converts key=text flag pairs into questions.
func parseQuestionSpecs(specs []string) ([]models.Question, error) {
	var questions []models.Question
	for _, spec := range specs {
		key, text, found := strings.Cut(spec, "=")
		if !found || key == "" || text == "" {
			return nil, fmt.Errorf("invalid question %q: expected key=text", spec)
		}
		questions = append(questions, models.Question{Key: key, Text: text})
	}
	return questions, nil
}

func init() {
	kbCheckCmd.Flags().String("symptom", "", "Observable symptom of the proposed rule")
	kbCheckCmd.Flags().StringSlice("premises", nil, "Comma-separated premise keys")
	_ = kbCheckCmd.MarkFlagRequired("symptom")

	kbAddRuleCmd.Flags().String("category", "", "Category (domain) of the rule")
	kbAddRuleCmd.Flags().String("symptom", "", "Observable symptom the rule matches")
	kbAddRuleCmd.Flags().String("hypothesis", "", "Probable cause the rule concludes")
	kbAddRuleCmd.Flags().String("suggestion", "", "Free-text suggestion for the user")
	kbAddRuleCmd.Flags().StringSlice("premises", nil, "Comma-separated premise keys")
	kbAddRuleCmd.Flags().StringArray("question", nil, "New question as key=text (repeatable)")
	kbAddRuleCmd.Flags().StringArray("action", nil, "Remediation action (repeatable)")

	kbCmd.AddCommand(kbCategoriesCmd)
	kbCmd.AddCommand(kbSymptomsCmd)
	kbCmd.AddCommand(kbPremisesCmd)
	kbCmd.AddCommand(kbCheckCmd)
	kbCmd.AddCommand(kbAddRuleCmd)
	rootCmd.AddCommand(kbCmd)
}
