package entity

// ToolSelection is the reasoning model's decision for a query. An empty Tool
// with an empty DirectAnswer is a failed selection.
type ToolSelection struct {
	Tool              string         `json:"tool"`
	Confidence        int            `json:"confidence"`
	Parameters        map[string]any `json:"parameters,omitempty"`
	Reasoning         string         `json:"reasoning,omitempty"`
	DirectAnswer      string         `json:"geminiOutput,omitempty"`
	Category          string         `json:"category,omitempty"`
	CanAnswerDirectly bool           `json:"canUseGemini"`
}

// Actionable reports whether the selection names a tool or carries an answer.
func (s *ToolSelection) Actionable() bool {
	return s != nil && (s.Tool != "" || s.DirectAnswer != "")
}

// AIResponse is the pipeline's terminal output.
type AIResponse struct {
	Success          bool     `json:"success"`
	ToolUsed         string   `json:"toolUsed,omitempty"`
	RawData          any      `json:"rawData,omitempty"`
	NaturalResponse  string   `json:"naturalResponse"`
	OriginalResponse string   `json:"originalResponse,omitempty"`
	Reasoning        string   `json:"reasoning,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	ChainedTools     []string `json:"chainedTools,omitempty"`
	Error            string   `json:"error,omitempty"`
	State            State    `json:"state"`
	SessionID        string   `json:"sessionId,omitempty"`
}

// ChainResult is the merged outcome of a successful chain. Tools lists the
// whole sequence, primary tool first.
type ChainResult struct {
	Kind  string   `json:"kind"`
	Tools []string `json:"tools"`
	Data  any      `json:"data"`
}

const (
	ChainCrawl    = "crawl"
	ChainDocument = "document"
)

// CrawlBundle is the search→crawl chain payload.
type CrawlBundle struct {
	SearchResults     any           `json:"search_results"`
	CrawledSites      []CrawledSite `json:"crawled_sites"`
	TotalSitesCrawled int           `json:"total_sites_crawled"`
	AutoCrawled       bool          `json:"auto_crawled"`
	FailedSites       []FailedSite  `json:"failed_sites,omitempty"`
}

type CrawledSite struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Data  any    `json:"data"`
}

type FailedSite struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// DocumentBundle is the retrieval→document chain payload.
type DocumentBundle struct {
	OriginalData    any `json:"original_data"`
	CreatedDocument any `json:"created_document"`
}
