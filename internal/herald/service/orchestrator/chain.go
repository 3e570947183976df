package orchestrator

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/pkg/metrics"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/utils/json"
)

var (
	webSearchTools  = map[string]bool{builtin.WebSearch: true}
	retrievalTools  = map[string]bool{builtin.GetEmails: true, builtin.GetCalendarEvents: true, builtin.SearchDriveFiles: true}
	contentTools    = map[string]bool{builtin.GenerateContent: true}
	processingTools = map[string]bool{builtin.SummarizeDocument: true}

	researchPattern      = regexp.MustCompile(`(?i)\b(research|explain|compare|comparison|latest|comprehensive|detailed|in-depth|in depth|thorough|analy[sz]e|analysis|overview|deep dive|investigate|tell me about|learn about|pros and cons)\b`)
	comprehensivePattern = regexp.MustCompile(`(?i)\b(comprehensive|in-depth|in depth|thorough|deep dive|exhaustive)\b`)
	createPattern        = regexp.MustCompile(`(?i)\b(create|make|generate|write|draft|compile|put together|prepare)\b`)
	docPattern           = regexp.MustCompile(`(?i)\b(docs?|documents?|summary|summaries|report|reports)\b`)
	savePattern          = regexp.MustCompile(`(?i)\b(save|saved|saving|store|keep)\b`)
	summarizePattern     = regexp.MustCompile(`(?i)\b(summari[sz]e|summari[sz]ing|summary)\b`)
)

const (
	crawlTargets              = 3
	comprehensiveCrawlTargets = 5
)

// ShouldChain reports whether a successful primary result warrants a second
// tool call. It has no side effects.
func ShouldChain(sel *entity.ToolSelection, result *toolEntity.ToolResult, uc *entity.UserContext) bool {
	if sel == nil || result == nil || uc == nil || !result.Success {
		return false
	}
	return chainKind(sel.Tool, uc) != ""
}

func chainKind(tool string, uc *entity.UserContext) string {
	q := uc.Query
	switch {
	case webSearchTools[tool]:
		if researchPattern.MatchString(q) || uc.Preferences.IsVoiceQuery {
			return entity.ChainCrawl
		}
	case retrievalTools[tool]:
		if createPattern.MatchString(q) && docPattern.MatchString(q) {
			return entity.ChainDocument
		}
	case contentTools[tool]:
		if savePattern.MatchString(q) {
			return entity.ChainDocument
		}
	case processingTools[tool]:
		if summarizePattern.MatchString(q) && savePattern.MatchString(q) {
			return entity.ChainDocument
		}
	}
	return ""
}

// Chainer runs the second step of a chain.
type Chainer struct {
	tools ToolRunner
}

func NewChainer(tools ToolRunner) *Chainer {
	return &Chainer{tools: tools}
}

// PerformChain returns nil whenever the chain produced nothing usable; the
// caller then keeps the primary result.
func (c *Chainer) PerformChain(ctx context.Context, sel *entity.ToolSelection, result *toolEntity.ToolResult, userID string, uc *entity.UserContext) *entity.ChainResult {
	if !ShouldChain(sel, result, uc) {
		return nil
	}

	kind := chainKind(sel.Tool, uc)
	var out *entity.ChainResult
	switch kind {
	case entity.ChainCrawl:
		out = c.crawl(ctx, sel, result, userID, uc)
	case entity.ChainDocument:
		out = c.document(ctx, sel, result, userID, uc)
	}

	outcome := "success"
	if out == nil {
		outcome = "fallback"
	}
	metrics.ChainRuns.WithLabelValues(kind, outcome).Inc()
	return out
}

func (c *Chainer) crawl(ctx context.Context, sel *entity.ToolSelection, result *toolEntity.ToolResult, userID string, uc *entity.UserContext) *entity.ChainResult {
	var search toolEntity.SearchResults
	if err := json.Convert(result.Data, &search); err != nil {
		logger.Warn("[Chain] search results not readable: %v", err)
		return nil
	}

	n := crawlTargets
	if comprehensivePattern.MatchString(uc.Query) {
		n = comprehensiveCrawlTargets
	}
	targets := crawlURLs(search.Results, n)
	if len(targets) == 0 {
		return nil
	}

	results := make([]*toolEntity.ToolResult, len(targets))
	var wg sync.WaitGroup
	for i, u := range targets {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			results[i] = c.tools.Execute(ctx, builtin.CrawlWebpage, userID, map[string]any{"url": u})
		}(i, u)
	}
	wg.Wait()

	bundle := &entity.CrawlBundle{SearchResults: result.Data, AutoCrawled: true}
	for i, r := range results {
		if r == nil || !r.Success {
			msg := "no result"
			if r != nil {
				msg = r.Error
			}
			bundle.FailedSites = append(bundle.FailedSites, entity.FailedSite{URL: targets[i], Error: msg})
			continue
		}
		var page toolEntity.CrawledPage
		_ = json.Convert(r.Data, &page)
		bundle.CrawledSites = append(bundle.CrawledSites, entity.CrawledSite{URL: targets[i], Title: page.Title, Data: r.Data})
	}
	bundle.TotalSitesCrawled = len(bundle.CrawledSites)

	logger.Info("[Chain] crawled %d/%d sites for %q", bundle.TotalSitesCrawled, len(targets), uc.Query)
	if bundle.TotalSitesCrawled == 0 {
		return nil
	}
	return &entity.ChainResult{
		Kind:  entity.ChainCrawl,
		Tools: []string{sel.Tool, builtin.CrawlWebpage},
		Data:  bundle,
	}
}

func crawlURLs(hits []toolEntity.SearchHit, n int) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for _, h := range hits {
		u := strings.TrimSpace(h.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == n {
			break
		}
	}
	return out
}

func (c *Chainer) document(ctx context.Context, sel *entity.ToolSelection, result *toolEntity.ToolResult, userID string, uc *entity.UserContext) *entity.ChainResult {
	title, content, ok := BuildDocument(sel.Tool, result.Data, uc)
	if !ok {
		return nil
	}
	created := c.tools.Execute(ctx, builtin.CreateDocument, userID, map[string]any{
		"title":   title,
		"content": content,
	})
	if created == nil || !created.Success {
		if created != nil {
			logger.Warn("[Chain] document creation failed: %s", created.Error)
		}
		return nil
	}
	return &entity.ChainResult{
		Kind:  entity.ChainDocument,
		Tools: []string{sel.Tool, builtin.CreateDocument},
		Data: &entity.DocumentBundle{
			OriginalData:    result.Data,
			CreatedDocument: created.Data,
		},
	}
}
