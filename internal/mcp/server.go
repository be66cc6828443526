// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the diagnostic engine as MCP tools for AI assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/emoralesr/diagwiz/internal/core"
	"github.com/emoralesr/diagwiz/internal/observability"
	"github.com/emoralesr/diagwiz/internal/storage"
	"github.com/emoralesr/diagwiz/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the diagnostic engine and exposes it as MCP tools.
type Server struct {
	server   *gomcp.Server
	store    storage.KnowledgeBaseStore
	ingestor core.RuleIngestor
	events   observability.EventLog
}

// NewServer creates a new MCP server over the given knowledge-base store.
// events may be nil when the event log is disabled.
func NewServer(store storage.KnowledgeBaseStore, ingestor core.RuleIngestor, events observability.EventLog, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:    store,
		ingestor: ingestor,
		events:   events,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "diagwiz", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listCategoriesInput struct{}

type listCategoriesOutput struct {
	Categories []string `json:"categories"`
}

type listSymptomsInput struct {
	Category string `json:"category" jsonschema:"required,the category name or its 1-based index"`
}

type listSymptomsOutput struct {
	Category string   `json:"category"`
	Symptoms []string `json:"symptoms"`
}

type getQuestionsInput struct {
	Observable string `json:"observable" jsonschema:"required,the observable symptom the user selected"`
}

type questionOutput struct {
	Key     string   `json:"key"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type getQuestionsOutput struct {
	Candidates int              `json:"candidates"`
	Questions  []questionOutput `json:"questions"`
}

type diagnoseInput struct {
	Category   string         `json:"category" jsonschema:"required,the category name or its 1-based index"`
	Observable string         `json:"observable" jsonschema:"required,the observable symptom name or its 1-based index within the category"`
	Answers    map[string]any `json:"answers,omitempty" jsonschema:"answer values keyed by question/premise key; booleans and strings accepted"`
}

type checkRuleInput struct {
	Symptom     string   `json:"symptom" jsonschema:"required,the observable symptom of the proposed rule"`
	PremiseKeys []string `json:"premise_keys" jsonschema:"required,the premise keys of the proposed rule"`
}

type checkRuleOutput struct {
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message,omitempty"`
}

type newQuestionInput struct {
	Key  string `json:"key" jsonschema:"required,the premise key this question answers"`
	Text string `json:"text" jsonschema:"required,the question text shown to the user"`
}

type addRuleInput struct {
	Category    string             `json:"category" jsonschema:"required,the category the rule belongs to"`
	Symptom     string             `json:"symptom" jsonschema:"required,the observable symptom the rule explains"`
	Hypothesis  string             `json:"hypothesis" jsonschema:"required,the candidate cause"`
	Suggestion  string             `json:"suggestion" jsonschema:"required,the contributor's remediation suggestion"`
	PremiseKeys []string           `json:"premise_keys" jsonschema:"required,the premise keys of the rule"`
	Questions   []newQuestionInput `json:"questions,omitempty" jsonschema:"questions for premise keys not yet covered by the knowledge base"`
	Actions     []string           `json:"actions,omitempty" jsonschema:"remediation actions; defaults apply when empty"`
}

type addRuleOutput struct {
	Accepted   bool   `json:"accepted"`
	Hypothesis string `json:"hypothesis,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_categories",
		Description: "List the problem categories of the active knowledge base, in document order.",
	}, s.handleListCategories)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_symptoms",
		Description: "List the observable symptoms of a category. The category may be given by name or 1-based index.",
	}, s.handleListSymptoms)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_questions",
		Description: "Get the deduplicated question list to ask for an observable symptom, with the answer key to use per question.",
	}, s.handleGetQuestions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "diagnose",
		Description: "Run the diagnostic inference over the given answers and return the diagnosis with its full evaluation trace.",
	}, s.handleDiagnose)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "check_rule",
		Description: "Validate a proposed rule's symptom and premise-key set against the knowledge base for logical duplicates.",
	}, s.handleCheckRule)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_rule",
		Description: "Validate and append a new rule to the user knowledge base. Rejections report the reason without modifying the knowledge base.",
	}, s.handleAddRule)
}

// --- Tool handlers ---

func (s *Server) handleListCategories(_ context.Context, _ *gomcp.CallToolRequest, _ listCategoriesInput) (*gomcp.CallToolResult, listCategoriesOutput, error) {
	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), listCategoriesOutput{}, nil
	}
	return nil, listCategoriesOutput{Categories: kb.Categories.Names()}, nil
}

func (s *Server) handleListSymptoms(_ context.Context, _ *gomcp.CallToolRequest, input listSymptomsInput) (*gomcp.CallToolResult, listSymptomsOutput, error) {
	if input.Category == "" {
		return errorResult("category is required"), listSymptomsOutput{}, nil
	}

	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), listSymptomsOutput{}, nil
	}

	category, ok := core.SelectCategory(kb, input.Category)
	if !ok {
		return errorResult(fmt.Sprintf("category %q not found", input.Category)), listSymptomsOutput{}, nil
	}

	symptoms, _ := kb.Categories.Symptoms(category)
	return nil, listSymptomsOutput{Category: category, Symptoms: symptoms}, nil
}

func (s *Server) handleGetQuestions(_ context.Context, _ *gomcp.CallToolRequest, input getQuestionsInput) (*gomcp.CallToolResult, getQuestionsOutput, error) {
	if input.Observable == "" {
		return errorResult("observable is required"), getQuestionsOutput{}, nil
	}

	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), getQuestionsOutput{}, nil
	}

	candidates, questions := core.FindCandidates(kb, input.Observable)
	out := getQuestionsOutput{Candidates: len(candidates)}
	for _, q := range questions {
		out.Questions = append(out.Questions, questionOutput{
			Key:     core.QuestionKey(q),
			Text:    q.Text,
			Type:    string(q.EffectiveType()),
			Options: q.Options,
		})
	}
	return nil, out, nil
}

func (s *Server) handleDiagnose(_ context.Context, _ *gomcp.CallToolRequest, input diagnoseInput) (*gomcp.CallToolResult, models.Diagnosis, error) {
	if input.Category == "" {
		return errorResult("category is required"), models.Diagnosis{}, nil
	}
	if input.Observable == "" {
		return errorResult("observable is required"), models.Diagnosis{}, nil
	}

	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), models.Diagnosis{}, nil
	}

	category, ok := core.SelectCategory(kb, input.Category)
	if !ok {
		return errorResult(fmt.Sprintf("category %q not found", input.Category)), models.Diagnosis{}, nil
	}
	observable, ok := core.SelectObservable(kb, category, input.Observable)
	if !ok {
		return errorResult(fmt.Sprintf("observable %q not found in category %q", input.Observable, category)), models.Diagnosis{}, nil
	}

	answers := make(models.AnswerSet, len(input.Answers))
	for k, v := range input.Answers {
		answers[k] = models.AnswerFrom(v)
	}

	diagnosis := core.Diagnose(kb, category, observable, answers)

	if s.events != nil {
		_ = s.events.Write(observability.DiagnosisEvent(
			category, observable, diagnosis.Cause, !diagnosis.Undetermined(), len(diagnosis.Trace)))
	}

	return nil, diagnosis, nil
}

func (s *Server) handleCheckRule(_ context.Context, _ *gomcp.CallToolRequest, input checkRuleInput) (*gomcp.CallToolResult, checkRuleOutput, error) {
	if input.Symptom == "" {
		return errorResult("symptom is required"), checkRuleOutput{}, nil
	}

	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), checkRuleOutput{}, nil
	}

	dup, msg := core.CheckDuplicateRule(kb, input.Symptom, input.PremiseKeys)
	return nil, checkRuleOutput{Duplicate: dup, Message: msg}, nil
}

func (s *Server) handleAddRule(_ context.Context, _ *gomcp.CallToolRequest, input addRuleInput) (*gomcp.CallToolResult, addRuleOutput, error) {
	if s.ingestor == nil {
		return errorResult("rule ingestion is not available"), addRuleOutput{}, nil
	}

	kb, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading knowledge base: %s", err)), addRuleOutput{}, nil
	}

	sub := core.RuleSubmission{
		Category:    input.Category,
		Symptom:     input.Symptom,
		Hypothesis:  input.Hypothesis,
		Suggestion:  input.Suggestion,
		PremiseKeys: input.PremiseKeys,
		Actions:     input.Actions,
	}
	for _, q := range input.Questions {
		sub.NewQuestions = append(sub.NewQuestions, models.Question{Key: q.Key, Text: q.Text})
	}

	rule, err := s.ingestor.AddRule(kb, sub)
	if err != nil {
		var rej *core.RejectionError
		if errors.As(err, &rej) {
			return nil, addRuleOutput{Accepted: false, Reason: rej.Reason}, nil
		}
		return errorResult(fmt.Sprintf("adding rule: %s", err)), addRuleOutput{}, nil
	}

	if s.events != nil {
		_ = s.events.Write(observability.RuleAddedEvent(rule.Symptom, rule.Hypothesis, len(rule.Premises)))
	}

	return nil, addRuleOutput{Accepted: true, Hypothesis: rule.Hypothesis}, nil
}

// --- Helpers ---

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
