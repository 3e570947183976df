package orchestrator

import (
	"context"
	"time"

	"github.com/jinzhu/copier"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
)

// Enricher folds the stored preference profile into a request context.
type Enricher struct {
	prefs   PreferenceSource
	timeout time.Duration
	now     func() time.Time
}

func NewEnricher(prefs PreferenceSource, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Enricher{prefs: prefs, timeout: timeout, now: time.Now}
}

// Enrich returns a personalized copy of uc. When no profile can be loaded uc
// itself is returned untouched.
func (e *Enricher) Enrich(ctx context.Context, uc *entity.UserContext, userID string) *entity.UserContext {
	if e == nil || e.prefs == nil || uc == nil {
		return uc
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	profile, err := e.prefs.GetPreferences(fetchCtx, userID)
	if err != nil || profile == nil {
		if err != nil {
			logger.Debug("[Enrich] no preferences for user %s: %v", userID, err)
		}
		return uc
	}

	out := &entity.UserContext{}
	if err := copier.Copy(out, uc); err != nil {
		logger.Warn("[Enrich] copy context failed: %v", err)
		return uc
	}
	if out.Timezone == "" && profile.Timezone != "" {
		out.Timezone = profile.Timezone
	}
	if out.Preferences.ResponseStyle == "" {
		out.Preferences.ResponseStyle = StyleForDetail(profile.CommunicationStyle.DetailLevel)
	}

	ts := out.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}
	local := ts.In(out.Location())
	out.Personalization = &entity.Personalization{
		Profile: profile,
		CurrentContext: entity.CurrentContext{
			TimeOfDay: TimeOfDay(local),
			DayOfWeek: local.Weekday().String(),
			Timestamp: ts,
		},
	}
	return out
}

// StyleForDetail maps a stored detail level to a response style.
func StyleForDetail(detail string) entity.ResponseStyle {
	switch detail {
	case "brief":
		return entity.StyleBrief
	case "detailed", "comprehensive":
		return entity.StyleDetailed
	default:
		return entity.StyleConversational
	}
}

func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
