package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/tools/pkg/errno"
	"github.com/kiosk404/herald/pkg/utils/json"
)

const (
	userAgent   = "herald/1.0 (+https://github.com/kiosk404/herald)"
	maxBodySize = 5 * 1024 * 1024
)

func registerWeb(r *service.Registry, deps Deps) {
	r.Register(WebSearch, entity.ToolFunc(func(ctx context.Context, _ string, params map[string]any) (any, error) {
		return searchWeb(ctx, deps, str(params, "query"), num(params, "limit", 8))
	}), &entity.ToolMetadata{
		Description: "Search the web for current information, news and facts. Returns titles, urls and snippets.",
		Category:    entity.CategoryWeb,
		Parameters: []entity.ParameterSpec{
			{Name: "query", Type: entity.ParamString, Description: "Search terms", Required: true},
			{Name: "limit", Type: entity.ParamNumber, Description: "Maximum number of results, default 8"},
		},
		Examples: []entity.ToolExample{
			{Query: "Research the latest developments in fusion energy", ExpectedParams: map[string]any{"query": "latest developments in fusion energy"}},
			{Query: "Who won the match last night?", ExpectedParams: map[string]any{"query": "match result last night"}},
		},
		TimeContext: entity.TimeRealtime,
		DataAccess:  entity.AccessRead,
	})

	r.Register(CrawlWebpage, entity.ToolFunc(func(ctx context.Context, _ string, params map[string]any) (any, error) {
		return crawlPage(ctx, deps, str(params, "url"))
	}), &entity.ToolMetadata{
		Description: "Fetch a web page and extract its title, headings and main text.",
		Category:    entity.CategoryWeb,
		Parameters: []entity.ParameterSpec{
			{Name: "url", Type: entity.ParamString, Description: "Absolute http(s) URL", Required: true},
		},
		Examples: []entity.ToolExample{
			{Query: "What does https://go.dev/blog say?", ExpectedParams: map[string]any{"url": "https://go.dev/blog"}},
		},
		TimeContext: entity.TimeRealtime,
		DataAccess:  entity.AccessRead,
	})
}

type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Engine  string `json:"engine"`
	} `json:"results"`
}

func searchWeb(ctx context.Context, deps Deps, query string, limit int) (*entity.SearchResults, error) {
	if deps.SearchEndpoint == "" {
		return nil, errno.ErrSearchDisabled
	}

	u := strings.TrimRight(deps.SearchEndpoint, "/") + "/search?" + url.Values{
		"q":      {query},
		"format": {"json"},
	}.Encode()
	body, err := fetch(ctx, deps.HTTPClient, u)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp searxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	out := &entity.SearchResults{Query: query, Results: make([]entity.SearchHit, 0, limit)}
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		out.Results = append(out.Results, entity.SearchHit{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Engine:  r.Engine,
		})
		if len(out.Results) == limit {
			break
		}
	}
	return out, nil
}

func crawlPage(ctx context.Context, deps Deps, rawURL string) (*entity.CrawledPage, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, fmt.Errorf("url must start with http:// or https://")
	}

	body, err := fetch(ctx, deps.HTTPClient, rawURL)
	if err != nil {
		return nil, err
	}
	page, err := ExtractPage(rawURL, string(body), deps.MaxPageChars)
	if err != nil {
		return nil, err
	}
	if page.Content == "" {
		return nil, fmt.Errorf("no readable content at %s", rawURL)
	}
	return page, nil
}

// ExtractPage pulls the readable parts out of an HTML document.
func ExtractPage(pageURL, html string, maxChars int) (*entity.CrawledPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, header, aside, form").Remove()

	page := &entity.CrawledPage{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}
	doc.Find("h1, h2, h3").Each(func(i int, s *goquery.Selection) {
		if h := collapse(s.Text()); h != "" && len(page.Headings) < 20 {
			page.Headings = append(page.Headings, h)
		}
	})
	page.Links = doc.Find("a[href]").Length()

	root := doc.Find("article, main").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	var parts []string
	root.Find("p, li, pre, blockquote").Each(func(i int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		if t := collapse(root.Text()); t != "" {
			parts = append(parts, t)
		}
	}

	content := strings.Join(parts, "\n")
	if maxChars > 0 {
		if r := []rune(content); len(r) > maxChars {
			content = string(r[:maxChars]) + "..."
		}
	}
	page.Content = content
	return page, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fetch(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned %s", u, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
