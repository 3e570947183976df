package entity

import (
	"context"
	"time"
)

type locationKey struct{}

// WithLocation attaches the requester's timezone so date-relative tools
// resolve "today" in the user's zone.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	if loc == nil {
		return ctx
	}
	return context.WithValue(ctx, locationKey{}, loc)
}

// LocationFrom returns the attached timezone, or UTC.
func LocationFrom(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(locationKey{}).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}
