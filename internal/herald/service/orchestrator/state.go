package orchestrator

import (
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
)

// Observer receives every state transition of one pipeline run.
type Observer func(entity.Transition)

// run tracks the state of a single query.
type run struct {
	state     entity.State
	observers []Observer
	now       func() time.Time
	history   []entity.State
}

func newRun(now func() time.Time, observers ...Observer) *run {
	r := &run{state: entity.StateReceived, now: now}
	for _, o := range observers {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
	r.history = append(r.history, entity.StateReceived)
	r.notify(entity.Transition{To: entity.StateReceived, At: now()})
	return r
}

// to moves the run to the next state. Illegal edges are logged and ignored.
func (r *run) to(next entity.State, detail string) bool {
	if !entity.CanTransition(r.state, next) {
		logger.Error("[Pipeline] illegal transition %s -> %s", r.state, next)
		return false
	}
	t := entity.Transition{From: r.state, To: next, At: r.now(), Detail: detail}
	r.state = next
	r.history = append(r.history, next)
	r.notify(t)
	return true
}

func (r *run) notify(t entity.Transition) {
	for _, o := range r.observers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					logger.Warn("[Pipeline] observer panicked: %v", p)
				}
			}()
			o(t)
		}()
	}
}
