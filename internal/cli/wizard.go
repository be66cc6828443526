package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/pkg/models"
	"github.com/spf13/cobra"
)

// Wizard steps.
const (
	stepCategory = iota
	stepObservable
	stepQuestions
	stepDone
)

type wizardModel struct {
	kb        *models.KnowledgeBase
	showTrace bool

	step   int
	cursor int
	items  []string

	category   string
	observable string
	questions  []models.Question
	qIndex     int
	input      string
	answers    models.AnswerSet

	diagnosis *models.Diagnosis
	quitting  bool
}

func newWizardModel(kb *models.KnowledgeBase, showTrace bool) wizardModel {
	return wizardModel{
		kb:        kb,
		showTrace: showTrace,
		step:      stepCategory,
		items:     kb.Categories.Names(),
		answers:   make(models.AnswerSet),
	}
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	switch m.step {
	case stepCategory, stepObservable:
		return m.updateList(key)
	case stepQuestions:
		return m.updateQuestion(key)
	case stepDone:
		if key.String() == "q" || key.String() == "enter" {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m wizardModel) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		if m.step == stepCategory {
			m.category = selected
			symptoms, _ := m.kb.Categories.Symptoms(selected)
			m.items = symptoms
			m.cursor = 0
			m.step = stepObservable
			return m, nil
		}
		m.observable = selected
		_, m.questions = core.FindCandidates(m.kb, selected)
		m.qIndex = 0
		m.step = stepQuestions
		if len(m.questions) == 0 {
			return m.finish()
		}
	}
	return m, nil
}

func (m wizardModel) updateQuestion(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.questions[m.qIndex]
	switch q.EffectiveType() {
	case models.QuestionYesNo:
		switch key.String() {
		case "y", "s":
			// "s" accepts the Spanish affirmative.
			m.answers[core.QuestionKey(q)] = models.BoolAnswer(true)
			return m.advance()
		case "n":
			m.answers[core.QuestionKey(q)] = models.BoolAnswer(false)
			return m.advance()
		case "enter":
			return m.advance() // unanswered
		}

	case models.QuestionMultipleChoice:
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(q.Options)-1 {
				m.cursor++
			}
		case "enter":
			if len(q.Options) > 0 {
				m.answers[core.QuestionKey(q)] = models.TextAnswer(q.Options[m.cursor])
			}
			return m.advance()
		case "tab":
			return m.advance() // unanswered
		}

	default: // free text
		switch key.Type {
		case tea.KeyEnter:
			if strings.TrimSpace(m.input) != "" {
				m.answers[core.QuestionKey(q)] = models.TextAnswer(m.input)
			}
			return m.advance()
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
		case tea.KeyRunes, tea.KeySpace:
			m.input += string(key.Runes)
			if key.Type == tea.KeySpace {
				m.input += " "
			}
		}
	}
	return m, nil
}

func (m wizardModel) advance() (tea.Model, tea.Cmd) {
	m.qIndex++
	m.cursor = 0
	m.input = ""
	if m.qIndex >= len(m.questions) {
		return m.finish()
	}
	return m, nil
}

func (m wizardModel) finish() (tea.Model, tea.Cmd) {
	d := core.Diagnose(m.kb, m.category, m.observable, m.answers)
	m.diagnosis = &d
	m.step = stepDone

	if Events != nil {
		_ = Events.Write(observability.DiagnosisEvent(
			m.category, m.observable, d.Cause, !d.Undetermined(), len(d.Trace)))
	}
	return m, nil
}

func (m wizardModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.step {
	case stepCategory:
		return m.renderList("What kind of problem are you having?", "enter: select | q: quit")
	case stepObservable:
		return m.renderList(fmt.Sprintf("%s — which symptom do you observe?", m.category), "enter: select | q: quit")
	case stepQuestions:
		return m.renderQuestion()
	case stepDone:
		if m.diagnosis == nil {
			return ""
		}
		return renderDiagnosis(*m.diagnosis, m.showTrace) + "\n" + dimStyle.Render("q: quit") + "\n"
	}
	return ""
}

func (m wizardModel) renderList(title, help string) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n\n")
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  nothing to choose from"))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%2d. %s\n", marker, i+1, item))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m wizardModel) renderQuestion() string {
	q := m.questions[m.qIndex]

	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("question %d of %d", m.qIndex+1, len(m.questions))))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(q.Text))
	b.WriteString("\n\n")

	switch q.EffectiveType() {
	case models.QuestionYesNo:
		b.WriteString(dimStyle.Render("y: yes | n: no | enter: skip"))
	case models.QuestionMultipleChoice:
		for i, opt := range q.Options {
			marker := "  "
			if i == m.cursor {
				marker = "> "
			}
			b.WriteString(fmt.Sprintf("%s%s\n", marker, opt))
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter: select | tab: skip"))
	default:
		b.WriteString(fmt.Sprintf("> %s█\n\n", m.input))
		b.WriteString(dimStyle.Render("type your answer | enter: continue"))
	}
	b.WriteString("\n")
	return b.String()
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive troubleshooting wizard",
	Long: `Walk through the full diagnosis flow interactively: pick a category,
pick the symptom you observe, answer the questions the candidate rules
share, and get a diagnosis with its explanation trail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := loadKB()
		if err != nil {
			return err
		}

		showTrace := Config == nil || Config.ShowTrace
		if cmd.Flags().Changed("trace") {
			showTrace, _ = cmd.Flags().GetBool("trace")
		}

		p := tea.NewProgram(newWizardModel(kb, showTrace))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running wizard: %w", err)
		}
		return nil
	},
}

func init() {
	wizardCmd.Flags().Bool("trace", true, "Show the per-rule evaluation trace with the diagnosis")
	rootCmd.AddCommand(wizardCmd)
}
