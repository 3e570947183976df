// Package builtin provides the tool set registered at startup.
package builtin

import (
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	"github.com/kiosk404/herald/pkg/logger"
)

const (
	GetCalendarEvents   = "get_calendar_events"
	CreateCalendarEvent = "create_calendar_event"
	GetEmails           = "get_emails"
	SendEmail           = "send_email"
	SearchDriveFiles    = "search_drive_files"
	CreateDocument      = "create_document"
	SummarizeDocument   = "summarize_document"
	GenerateContent     = "generate_content"
	WebSearch           = "web_search"
	CrawlWebpage        = "crawl_webpage"
	Calculate           = "calculate"
	GetCurrentTime      = "get_current_time"
)

// Deps are the backends the built-in tools run against.
type Deps struct {
	Workspace repo.WorkspaceRepository
	// ChatModel powers the content tools. They fail cleanly when nil.
	ChatModel model.BaseChatModel
	// SearchEndpoint is a SearXNG-compatible base URL. Empty disables web_search.
	SearchEndpoint string
	HTTPClient     *http.Client
	// MaxPageChars truncates crawled page text.
	MaxPageChars int
	Now          func() time.Time
}

func (d *Deps) complete() {
	if d.HTTPClient == nil {
		d.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if d.MaxPageChars <= 0 {
		d.MaxPageChars = 6000
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Register installs every built-in tool into r. Workspace-backed tools are
// skipped when no workspace is configured.
func Register(r *service.Registry, deps Deps) {
	deps.complete()

	if deps.Workspace != nil {
		registerCalendar(r, deps)
		registerEmail(r, deps)
		registerDrive(r, deps)
		registerDocuments(r, deps)
	} else {
		logger.Warn("[Tools] no workspace backend, productivity tools disabled")
	}
	registerContent(r, deps)
	registerWeb(r, deps)
	registerSystem(r, deps)

	logger.Info("[Tools] %d built-in tools registered", r.Len())
}
