// Package scheduler computes a recommended stage running order for the bands
// of a live event.
//
// The order is built greedily: each slot is filled with the remaining band
// that scores highest against the one or two bands already placed before it.
// There is no backtracking, so the result is not guaranteed to be globally
// optimal, but it is deterministic for a given input.
package scheduler

import (
	"github.com/okian/stageorder/internal/domain/features"
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scoring"
)

// Placement is one filled slot of a plan.
type Placement struct {
	Position int
	Band     *model.Band
	Feature  features.Feature
	Score    scoring.Breakdown
}

// Scheduler orders bands. It holds no per-call state and is safe for
// concurrent use.
type Scheduler struct {
	builder *features.Builder
	scorer  *scoring.Scorer
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithFeatureBuilder sets the feature extractor.
func WithFeatureBuilder(b *features.Builder) Option {
	return func(s *Scheduler) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithScorer sets the slot scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Scheduler) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// New creates a Scheduler with default classifiers and weights.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		builder: features.NewBuilder(),
		scorer:  scoring.NewScorer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Order returns every band exactly once in the recommended running order.
// The returned slice holds the same pointers as bands.
func (s *Scheduler) Order(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []*model.Band {
	plan := s.Plan(bands, songs, members)
	out := make([]*model.Band, len(plan))
	for i, p := range plan {
		out[i] = p.Band
	}
	return out
}

// Plan is Order with the winning score and features recorded per slot.
func (s *Scheduler) Plan(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []Placement {
	if len(bands) == 0 {
		return []Placement{}
	}

	feats := s.builder.Build(bands, songs, members)
	win := scoring.NewWindow(len(bands))

	// remaining holds input indexes in input order; removal keeps that order.
	remaining := make([]int, len(bands))
	for i := range remaining {
		remaining[i] = i
	}
	ordered := make([]Placement, 0, len(bands))

	for len(remaining) > 0 {
		position := len(ordered)
		var prev1, prev2 *features.Feature
		if position >= 1 {
			prev1 = &ordered[position-1].Feature
		}
		if position >= 2 {
			prev2 = &ordered[position-2].Feature
		}

		best := -1
		var bestScore scoring.Breakdown
		for slot, idx := range remaining {
			sc := s.scorer.Score(&feats[idx], prev1, prev2, position, win)
			if best < 0 || sc.Total() > bestScore.Total() {
				best, bestScore = slot, sc
			}
		}

		idx := remaining[best]
		remaining = append(remaining[:best], remaining[best+1:]...)
		ordered = append(ordered, Placement{
			Position: position,
			Band:     bands[idx],
			Feature:  feats[idx],
			Score:    bestScore,
		})
	}
	return ordered
}

// Order runs a default Scheduler.
func Order(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []*model.Band {
	return New().Order(bands, songs, members)
}
