package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/trend_scout/pkg/config"
	"github.com/iWorld-y/trend_scout/pkg/logger"
	dm "github.com/iWorld-y/trend_scout/pkg/model"
	"github.com/iWorld-y/trend_scout/pkg/report"
	"github.com/iWorld-y/trend_scout/pkg/search"
	"github.com/iWorld-y/trend_scout/pkg/search/factory"
	"github.com/iWorld-y/trend_scout/pkg/storage"
	"github.com/iWorld-y/trend_scout/pkg/tools"
)

const (
	maxRunAttempts = 3
	backoffFloor   = 4 * time.Second
)

// Scout drives the three-stage workflow: select a topic from trending
// stories, research it, generate a Markdown report. Each stage is a fresh
// bounded agent invocation with its own tool subset and output schema;
// only the structured result crosses stage boundaries.
type Scout struct {
	cfg       *config.Config
	chatModel model.ToolCallingChatModel
	searcher  search.Searcher
	store     *storage.Storage
	writer    *report.Writer
	prompts   Prompts
}

// NewScout creates the workflow driver. store may be nil for file-only runs.
func NewScout(cfg *config.Config, store *storage.Storage) (*Scout, error) {
	ctx := context.Background()

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM init failed: %w", err)
	}

	// The react agent calls the model once per internal step, so the
	// limiter is wired into the model itself rather than around the
	// per-stage invocations, which would only throttle the first step.
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("search client init failed: %w", err)
	}

	return &Scout{
		cfg:       cfg,
		chatModel: newThrottledModel(chatModel, limiter),
		searcher:  searcher,
		store:     store,
		writer:    report.NewWriter(cfg.Output.Dir),
		prompts:   DefaultPrompts(),
	}, nil
}

// UsePrompts substitutes the stage instructions, mainly for tests.
func (s *Scout) UsePrompts(p Prompts) {
	s.prompts = p
}

// RunWithRetry executes the full workflow, retrying the whole run with
// exponential backoff when an attempt fails (for example when the LLM
// backend signals it is overloaded). Exhausting the attempts surfaces the
// last failure. It returns the path of the written report.
func (s *Scout) RunWithRetry(ctx context.Context) (string, error) {
	return runWithRetry(ctx, maxRunAttempts, backoffFloor, s.Run)
}

func runWithRetry(ctx context.Context, attempts int, floor time.Duration, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	delay := floor
	for i := 0; i < attempts; i++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if i < attempts-1 {
			logger.Log.Warnf("run attempt %d/%d failed, retrying in %v: %v", i+1, attempts, delay, err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return "", lastErr
}

// Run executes one workflow attempt. Stage N's output is materialized and
// written to its artifact file before stage N+1 starts; a stage failure
// aborts the run, leaving earlier artifacts on disk as a debugging aid.
func (s *Scout) Run(ctx context.Context) (string, error) {
	ts := report.Timestamp(time.Now())

	// One HTTP client per run so tool calls reuse connections; released on
	// every exit path to avoid leaking across retries.
	client := &http.Client{Timeout: 30 * time.Second}
	defer client.CloseIdleConnections()

	tb, err := tools.NewToolbox(client, s.searcher)
	if err != nil {
		return "", err
	}

	var runID int
	if s.store != nil {
		rid, err := s.store.CreateRun()
		if err != nil {
			logger.Log.Errorf("failed to create run record: %v", err)
		} else {
			runID = rid
		}
	}

	sel, err := s.SelectTopic(ctx, tb)
	if err != nil {
		return "", fmt.Errorf("topic selection failed: %w", err)
	}
	logger.Log.Infof("selected topic: %s (relevance %.2f)", sel.SelectedTopic.Topic, sel.SelectedTopic.RelevanceScore)
	if err := s.saveJSONArtifact(runID, "topic_selection", ts+"_topic_selection.json", sel); err != nil {
		return "", err
	}
	if s.store != nil && runID > 0 {
		if err := s.store.UpdateRunTopic(runID, sel.SelectedTopic.Topic); err != nil {
			logger.Log.Errorf("failed to update run topic: %v", err)
		}
	}

	res, err := s.ResearchTopic(ctx, tb, sel)
	if err != nil {
		return "", fmt.Errorf("research failed: %w", err)
	}
	logger.Log.Infof("research completed with %d key insights", len(res.KeyInsights))
	if err := s.saveJSONArtifact(runID, "research_result", ts+"_research_result.json", res); err != nil {
		return "", err
	}

	md, err := s.GenerateReport(ctx, res)
	if err != nil {
		return "", fmt.Errorf("report generation failed: %w", err)
	}
	logger.Log.Infof("report generated with %d characters", len(md))

	name := ts + "_markdown_report.md"
	path, err := s.writer.Write(name, md)
	if err != nil {
		return "", err
	}
	s.saveStoreArtifact(runID, "markdown_report", name, md)
	if s.store != nil && runID > 0 {
		if err := s.store.UpdateRunReportPath(runID, path); err != nil {
			logger.Log.Errorf("failed to update run report path: %v", err)
		}
	}

	return path, nil
}

// SelectTopic runs stage 1 with the tool set gated for trending-story
// browsing, using a third of the request budget.
func (s *Scout) SelectTopic(ctx context.Context, tb *tools.Toolbox) (*dm.TopicSelectionResult, error) {
	budget, _, _ := splitBudget(s.cfg.Budget.RequestLimit)

	return runStructured[dm.TopicSelectionResult](ctx, s, tb, tools.IntentTrending,
		s.prompts.TopicSelectorSystem, s.prompts.TopicSelectorTask, budget)
}

// ResearchTopic runs stage 2. The intent switches to the selected topic's
// own text, so the gate now exposes keyword search instead of the trending
// feed. It gets two thirds of the request budget.
func (s *Scout) ResearchTopic(ctx context.Context, tb *tools.Toolbox, sel *dm.TopicSelectionResult) (*dm.EnhancedResearchResult, error) {
	_, budget, _ := splitBudget(s.cfg.Budget.RequestLimit)

	task := fmt.Sprintf(s.prompts.ResearcherTaskTemplate,
		sel.SelectedTopic.Topic, sel.SelectedTopic.Description, sel.SelectedTopic.SourceURL)

	return runStructured[dm.EnhancedResearchResult](ctx, s, tb, sel.SelectedTopic.Topic,
		s.prompts.ResearcherSystem, task, budget)
}

// GenerateReport runs stage 3: a tool-free call whose only input is the
// serialized research result. The model returns the report body plus its
// reference and image lists; the final document is assembled here, not by
// the model, so identical results always render identically.
func (s *Scout) GenerateReport(ctx context.Context, res *dm.EnhancedResearchResult) (string, error) {
	_, _, budget := splitBudget(s.cfg.Budget.RequestLimit)

	payload, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal research result failed: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(s.prompts.ReportSystem),
		schema.UserMessage(fmt.Sprintf(s.prompts.ReportTaskTemplate, string(payload))),
	}

	attempts := s.cfg.Budget.Retries
	if attempts > budget {
		attempts = budget
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := s.chatModel.Generate(ctx, messages)
		if err != nil {
			return "", err
		}

		var result dm.ResearchResult
		if err := decodeStructured(resp.Content, &result); err != nil {
			lastErr = err
			logger.Log.Warnf("report output parse failed, re-asking (%d/%d): %v", i+1, attempts, err)
			continue
		}
		return report.Assemble(result), nil
	}
	return "", fmt.Errorf("report output parse failed after %d attempts: %w", attempts, lastErr)
}

// runStructured executes one bounded agent invocation with the tool subset
// eligible for intent and parses the final message into a fresh T. A
// malformed structured output is re-asked up to the configured retry count;
// tool budget exhaustion or a backend error fails the stage.
func runStructured[T any](ctx context.Context, s *Scout, tb *tools.Toolbox, intent, system, task string, budget int) (*T, error) {
	ragent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: s.chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tb.Select(intent),
		},
		// Every request is a model step plus a tool-execution step.
		MaxStep: budget * 2,
	})
	if err != nil {
		return nil, fmt.Errorf("agent init failed: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(task),
	}

	var lastErr error
	for i := 0; i < s.cfg.Budget.Retries; i++ {
		resp, err := ragent.Generate(ctx, messages)
		if err != nil {
			return nil, err
		}

		// Each attempt gets its own value. Unmarshal can populate fields
		// before hitting a type error, and a stale field from a rejected
		// attempt must not survive into a later one.
		out := new(T)
		if err := decodeStructured(resp.Content, out); err != nil {
			lastErr = err
			logger.Log.Warnf("structured output parse failed, re-asking (%d/%d): %v", i+1, s.cfg.Budget.Retries, err)
			continue
		}
		return out, nil
	}
	return nil, fmt.Errorf("structured output parse failed after %d attempts: %w", s.cfg.Budget.Retries, lastErr)
}

// decodeStructured strips markdown fences the model may wrap around its
// JSON and unmarshals the rest into out.
func decodeStructured(content string, out any) error {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

// splitBudget divides the total request budget across the stages: one
// third for selection, two thirds for research, the rest for the report.
func splitBudget(total int) (selection, research, generation int) {
	selection = total / 3
	research = total / 3 * 2
	generation = total / 3
	if selection < 1 {
		selection = 1
	}
	if research < 1 {
		research = 1
	}
	if generation < 1 {
		generation = 1
	}
	return selection, research, generation
}

func (s *Scout) saveJSONArtifact(runID int, kind, name string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", kind, err)
	}
	if _, err := s.writer.Write(name, string(payload)); err != nil {
		return err
	}
	s.saveStoreArtifact(runID, kind, name, string(payload))
	return nil
}

// saveStoreArtifact mirrors an artifact into the database when one is
// configured. Database trouble never fails the run.
func (s *Scout) saveStoreArtifact(runID int, kind, name, content string) {
	if s.store == nil || runID == 0 {
		return
	}
	if err := s.store.SaveArtifact(runID, kind, name, content); err != nil {
		logger.Log.Errorf("failed to save %s artifact: %v", kind, err)
	}
}
