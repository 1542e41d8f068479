// Package api is the boundary facade over the planner engines. Every call
// returns a response struct carrying Success instead of a Go error, and a
// recovered panic degrades to a failed response, so callers embedding the
// planner (CLI, future transports) never have to fear the boundary.
package api

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/onfuse/planner/internal/schedule"
	"github.com/onfuse/planner/internal/schema"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/internal/timeline"
)

// envelope is the uniform response header embedded in every API response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e *envelope) ok() {
	e.Success = true
	e.Error = ""
}

func (e *envelope) fail(err error) {
	e.Success = false
	e.Error = err.Error()
}

// Service wires the persistence layer and the three engines behind the
// response-envelope contract.
type Service struct {
	store    store.Store
	timeline *timeline.Service
	schedule *schedule.Service
	resolver schema.Resolver
	log      *logrus.Logger
}

// NewService builds the facade over one store.
func NewService(st store.Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:    st,
		timeline: timeline.NewService(st, log),
		schedule: schedule.NewService(st, st, log),
		resolver: schema.NewCatalogResolver(st),
		log:      log,
	}
}

// recoverTo converts a panic in the wrapped call into a failed envelope.
// Deferred by every exported method so no panic crosses the boundary.
func (s *Service) recoverTo(op string, env *envelope) {
	if r := recover(); r != nil {
		s.log.WithField("op", op).Errorf("recovered panic: %v", r)
		env.fail(fmt.Errorf("internal error in %s: %v", op, r))
	}
}

// eqFilter converts a field->value map into equality store conditions.
func eqFilter(m map[string]any) store.Filter {
	if len(m) == 0 {
		return nil
	}
	filter := make(store.Filter, 0, len(m))
	for field, value := range m {
		filter = append(filter, store.Eq(field, value))
	}
	return filter
}
