package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	sessEntity "github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/pkg/metrics"
	"github.com/kiosk404/herald/pkg/logger"
)

const (
	NotSureMessage    = "I'm not sure how to help with that. Could you rephrase your request?"
	ErrorMessage      = "Something went wrong while handling your request. Please try again."
	EmptyQueryMessage = "Please enter a question or request."
)

type Config struct {
	// HistoryLimit is how many recent messages and tool calls feed selection
	// and response generation.
	HistoryLimit int
	// AutoCreateSession opens a session, titled from the query, when the
	// request carries none.
	AutoCreateSession bool

	SelectTimeout   time.Duration
	GenerateTimeout time.Duration
	StoreTimeout    time.Duration
}

func (c *Config) complete() {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
}

type Dependencies struct {
	ChatModel model.BaseChatModel
	Tools     ToolRunner
	Catalog   Catalog
	// Preferences and Sessions are optional.
	Preferences PreferenceSource
	Sessions    SessionStore
}

// Request is one query as received from a client.
type Request struct {
	UserID      string
	Query       string
	SessionID   string
	Timezone    string
	Preferences entity.RequestPreferences
	// Observer, when set, sees every state transition of this request.
	Observer Observer
}

// Pipeline runs queries end to end. It is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	enricher  *Enricher
	loader    *ContextLoader
	selector  *Selector
	chainer   *Chainer
	responder *Responder
	tools     ToolRunner
	catalog   Catalog
	sessions  SessionStore

	now       func() time.Time
	observers []Observer
	pending   sync.WaitGroup
}

func NewPipeline(deps Dependencies, cfg Config) *Pipeline {
	cfg.complete()
	p := &Pipeline{
		cfg:       cfg,
		enricher:  NewEnricher(deps.Preferences, cfg.StoreTimeout),
		selector:  NewSelector(deps.ChatModel, deps.Catalog, cfg.SelectTimeout),
		chainer:   NewChainer(deps.Tools),
		responder: NewResponder(deps.ChatModel, cfg.GenerateTimeout),
		tools:     deps.Tools,
		catalog:   deps.Catalog,
		now:       time.Now,
	}
	if deps.Sessions != nil {
		p.sessions = deps.Sessions
		p.loader = NewContextLoader(deps.Sessions, cfg.StoreTimeout)
	}
	return p
}

// SetClock overrides the time source. Intended for tests.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
	p.enricher.now = now
}

// Subscribe registers an observer for every request.
func (p *Pipeline) Subscribe(o Observer) {
	p.observers = append(p.observers, o)
}

// Wait blocks until pending session writes have finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

type turn struct {
	sessionID string
	query     string
	response  string
	meta      map[string]any
	toolCall  *sessEntity.ToolCall
}

// ProcessQuery never returns nil and never lets an error or panic escape.
func (p *Pipeline) ProcessQuery(ctx context.Context, req Request) (resp *entity.AIResponse) {
	start := p.now()
	observers := make([]Observer, 0, len(p.observers)+1)
	observers = append(observers, p.observers...)
	observers = append(observers, req.Observer)
	r := newRun(p.now, observers...)

	resp = &entity.AIResponse{SessionID: req.SessionID}
	t := &turn{query: strings.TrimSpace(req.Query)}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("[Pipeline] panic in state %s: %v\n%s", r.state, rec, debug.Stack())
			p.fail(r, resp, ErrorMessage, fmt.Sprint(rec))
		}
		resp.State = r.state
		metrics.PipelineResults.WithLabelValues(string(r.state)).Inc()
		metrics.PipelineLatency.Observe(p.now().Sub(start).Seconds())

		if t.sessionID != "" && t.query != "" {
			t.response = resp.NaturalResponse
			t.meta = map[string]any{
				"success": resp.Success,
				"state":   string(r.state),
			}
			if resp.ToolUsed != "" {
				t.meta["toolUsed"] = resp.ToolUsed
			}
			if len(resp.ChainedTools) > 0 {
				t.meta["chainedTools"] = resp.ChainedTools
			}
			p.persist(ctx, t)
		}
		logger.Info("[Pipeline] user=%s state=%s tool=%q chained=%v in %s",
			req.UserID, r.state, resp.ToolUsed, resp.ChainedTools, p.now().Sub(start))
	}()

	if t.query == "" {
		return p.fail(r, resp, EmptyQueryMessage, "empty query")
	}

	uc := &entity.UserContext{
		Query:       t.query,
		Timestamp:   start,
		Timezone:    req.Timezone,
		Preferences: req.Preferences,
	}
	sessionID, historyEnabled := p.resolveSession(ctx, req.UserID, req.SessionID, t.query)
	uc.SessionID = sessionID
	resp.SessionID = sessionID
	t.sessionID = sessionID

	r.to(entity.StateEnriching, "")
	uc = p.enricher.Enrich(ctx, uc, req.UserID)
	conv := entity.EmptyConversation()
	if historyEnabled {
		conv = p.loader.Load(ctx, uc.SessionID, req.UserID, p.cfg.HistoryLimit)
	}

	r.to(entity.StateSelecting, "")
	sel, err := p.selector.Select(ctx, uc, req.UserID, conv)
	if err != nil {
		logger.Warn("[Pipeline] selection failed: %v", err)
	}
	if !sel.Actionable() {
		return p.fail(r, resp, NotSureMessage, "no tool selected")
	}
	resp.Reasoning = sel.Reasoning

	if sel.Tool == "" {
		r.to(entity.StateDirectAnswer, "")
		p.finish(uc, resp, sel.DirectAnswer, "")
		resp.Success = true
		r.to(entity.StateDone, "")
		return resp
	}

	r.to(entity.StateExecuting, sel.Tool)
	ctx = toolEntity.WithLocation(ctx, uc.Location())
	result := p.tools.Execute(ctx, sel.Tool, req.UserID, sel.Parameters)
	resp.ToolUsed = sel.Tool
	resp.RawData = result.Data
	t.toolCall = &sessEntity.ToolCall{
		SessionID:  uc.SessionID,
		Tool:       sel.Tool,
		Parameters: sel.Parameters,
		Success:    result.Success,
		Error:      result.Error,
	}

	if !result.Success {
		r.to(entity.StateGenerating, "")
		resp.Error = result.Error
		p.finish(uc, resp, p.responder.Generate(ctx, uc, sel, result, req.UserID, conv), "")
		r.to(entity.StateDone, "")
		return resp
	}

	r.to(entity.StateChainCheck, "")
	final := result
	if ShouldChain(sel, result, uc) {
		r.to(entity.StateChaining, chainKind(sel.Tool, uc))
		if chain := p.chainer.PerformChain(ctx, sel, result, req.UserID, uc); chain != nil {
			resp.ChainedTools = chain.Tools
			resp.RawData = chain.Data
			t.toolCall.Chained = chain.Tools[1:]
			final = &toolEntity.ToolResult{
				Success:   true,
				Data:      chain.Data,
				Tool:      sel.Tool,
				Timestamp: result.Timestamp,
			}
		}
	}

	r.to(entity.StateGenerating, "")
	text := p.responder.Generate(ctx, uc, sel, final, req.UserID, conv)
	p.finish(uc, resp, text, p.category(sel))
	resp.Success = true
	r.to(entity.StateDone, "")
	return resp
}

func (p *Pipeline) fail(r *run, resp *entity.AIResponse, msg, errText string) *entity.AIResponse {
	r.to(entity.StateError, errText)
	resp.Success = false
	resp.NaturalResponse = msg
	resp.OriginalResponse = msg
	resp.Error = errText
	return resp
}

func (p *Pipeline) finish(uc *entity.UserContext, resp *entity.AIResponse, text string, category toolEntity.Category) {
	resp.OriginalResponse = text
	resp.NaturalResponse = text
	if uc.Preferences.CleanForSpeech {
		resp.NaturalResponse = CleanForSpeech(text)
	}
	if uc.Preferences.IncludeActions {
		resp.SuggestedActions = SuggestedActions(category)
	}
}

func (p *Pipeline) category(sel *entity.ToolSelection) toolEntity.Category {
	if p.catalog != nil {
		if meta, ok := p.catalog.GetMetadata(sel.Tool); ok {
			return meta.Category
		}
	}
	return toolEntity.Category(sel.Category)
}

// resolveSession returns the session to persist into and whether its
// history may be loaded. A session the user does not own is replaced.
func (p *Pipeline) resolveSession(ctx context.Context, userID, sessionID, query string) (string, bool) {
	if p.sessions == nil {
		return sessionID, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	defer cancel()

	if sessionID != "" {
		_, err := p.sessions.GetSession(ctx, userID, sessionID)
		if err == nil {
			return sessionID, true
		}
		logger.Warn("[Pipeline] session %s unavailable for user %s: %v", sessionID, userID, err)
	}
	if !p.cfg.AutoCreateSession {
		return "", false
	}
	session, err := p.sessions.CreateSession(ctx, userID, query)
	if err != nil {
		logger.Warn("[Pipeline] create session for user %s failed: %v", userID, err)
		return "", false
	}
	return session.ID, false
}

// persist writes the turn in the background. Failures are only logged.
func (p *Pipeline) persist(ctx context.Context, t *turn) {
	if p.sessions == nil {
		return
	}
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.StoreTimeout)
		defer cancel()

		if err := p.sessions.AddMessage(ctx, t.sessionID, sessEntity.RoleUser, t.query, nil); err != nil {
			logger.Warn("[Pipeline] persist user message to %s failed: %v", t.sessionID, err)
			return
		}
		if t.toolCall != nil {
			if err := p.sessions.AddToolCall(ctx, t.toolCall); err != nil {
				logger.Warn("[Pipeline] persist tool call to %s failed: %v", t.sessionID, err)
			}
		}
		if err := p.sessions.AddMessage(ctx, t.sessionID, sessEntity.RoleAssistant, t.response, t.meta); err != nil {
			logger.Warn("[Pipeline] persist assistant message to %s failed: %v", t.sessionID, err)
		}
	}()
}
