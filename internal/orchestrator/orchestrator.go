// Package orchestrator converts completed activities into bounded coherence
// vector deltas and reward points. It is a rule table with clamping; it
// never mutates its inputs and never fails on unknown input.
package orchestrator

import (
	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/logging"
	"sattva/internal/mentor"
)

// Result is the outcome of applying one activity.
type Result struct {
	Vector coherence.Vector
	Points int
}

// Orchestrator applies activity rules. The zero value is not usable; use New.
type Orchestrator struct {
	logger  logging.Logger
	metrics *Metrics
}

// New constructs an orchestrator reporting to the default metrics registry.
func New(logger logging.Logger) *Orchestrator {
	return &Orchestrator{logger: logging.OrNop(logger), metrics: defaultMetrics()}
}

// NewWithMetrics constructs an orchestrator with caller-supplied metrics,
// used by tests that need an isolated registry.
func NewWithMetrics(logger logging.Logger, metrics *Metrics) *Orchestrator {
	return &Orchestrator{logger: logging.OrNop(logger), metrics: metrics}
}

// Apply computes the new vector and point award for a drafted activity.
// The returned vector is a clamped copy; the caller owns persisting it.
func (o *Orchestrator) Apply(draft activity.Draft, current coherence.Vector) Result {
	r := o.ruleFor(draft)
	next := current.Clone()

	for _, d := range r.deltas {
		state := next.Dimensions[d.dim]
		state.Coherence = coherence.Clamp(state.Coherence + d.coherence)
		state.Dissonance = coherence.Clamp(state.Dissonance + d.dissonance)
		next.Dimensions[d.dim] = state
	}
	next.Alignment = coherence.Clamp(next.Alignment + r.alignment)

	if o.metrics != nil {
		o.metrics.ObserveActivity(string(draft.Kind), draft.ToolID, r.points)
		o.metrics.SetScore(coherence.Score(next))
	}
	return Result{Vector: next, Points: r.points}
}

func (o *Orchestrator) ruleFor(draft activity.Draft) rule {
	switch draft.Kind {
	case activity.KindChatSession:
		if m, ok := mentor.Get(draft.MentorID); ok {
			return chatRule(m.Dimension)
		}
		o.logger.Debug("chat activity for unknown mentor %q, applying neutral rule", draft.MentorID)
		return neutralRule
	case activity.KindToolUsage:
		if r, ok := toolRules[draft.ToolID]; ok {
			return r
		}
		// Upstream tools introduce new identifiers over time; treat them as
		// neutral rather than failing.
		o.logger.Debug("no rule for tool %q, applying neutral rule", draft.ToolID)
		return neutralRule
	default:
		return neutralRule
	}
}
