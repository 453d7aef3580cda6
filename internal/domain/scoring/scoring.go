// Package scoring defines the weights and the local score used to place a
// band in the next running-order slot.
package scoring

import "github.com/okian/stageorder/internal/domain/features"

// Default weights.
const (
	TripleOverlapPenalty   = -10000.0
	AdjacentOverlapPenalty = -20.0
	HeavyAdjacencyBonus    = 20.0
	LatePreferenceWeight   = 50.0
	JamLateBonus           = 20.0
	EarlyPreferenceWeight  = 40.0
	IndexTieBreak          = 0.01

	// lateSongCount is the song count from which a band prefers a late slot.
	lateSongCount = 3
)

// Weights holds the tunable score terms. Penalties are negative numbers.
type Weights struct {
	TripleOverlap   float64 `koanf:"triple_overlap" json:"triple_overlap"`
	AdjacentOverlap float64 `koanf:"adjacent_overlap" json:"adjacent_overlap"`
	HeavyAdjacency  float64 `koanf:"heavy_adjacency" json:"heavy_adjacency"`
	LatePreference  float64 `koanf:"late_preference" json:"late_preference"`
	JamLate         float64 `koanf:"jam_late" json:"jam_late"`
	EarlyPreference float64 `koanf:"early_preference" json:"early_preference"`
	TieBreak        float64 `koanf:"tie_break" json:"tie_break"`
}

// DefaultWeights returns the stock weight set.
func DefaultWeights() Weights {
	return Weights{
		TripleOverlap:   TripleOverlapPenalty,
		AdjacentOverlap: AdjacentOverlapPenalty,
		HeavyAdjacency:  HeavyAdjacencyBonus,
		LatePreference:  LatePreferenceWeight,
		JamLate:         JamLateBonus,
		EarlyPreference: EarlyPreferenceWeight,
		TieBreak:        IndexTieBreak,
	}
}

// Window describes the early and late regions of a show.
type Window struct {
	Total     int
	LateStart int
	EarlyEnd  int
}

// NewWindow computes the regions for total bands. EarlyEnd is -1 when the
// show is too short to have an early region.
func NewWindow(total int) Window {
	return Window{
		Total:     total,
		LateStart: total * 2 / 3,
		EarlyEnd:  total/3 - 1,
	}
}

// IsLate reports whether position falls in the late region.
func (w Window) IsLate(position int) bool { return position >= w.LateStart }

// IsEarly reports whether position falls in the early region.
func (w Window) IsEarly(position int) bool { return position <= w.EarlyEnd }

// Breakdown itemizes a candidate's score. Total is the sum of the terms.
type Breakdown struct {
	TripleOverlap   float64 `json:"triple_overlap,omitempty"`
	AdjacentOverlap float64 `json:"adjacent_overlap,omitempty"`
	HeavyAdjacency  float64 `json:"heavy_adjacency,omitempty"`
	Late            float64 `json:"late,omitempty"`
	Early           float64 `json:"early,omitempty"`
	TieBreak        float64 `json:"tie_break,omitempty"`
}

// Total sums every term.
func (b Breakdown) Total() float64 {
	return b.TripleOverlap + b.AdjacentOverlap + b.HeavyAdjacency + b.Late + b.Early + b.TieBreak
}

// PrefersLate reports whether a band should be pushed toward the end.
func PrefersLate(f *features.Feature) bool {
	return f.IsJam || f.BigBand || f.SongCount >= lateSongCount || f.Preference == features.PreferenceLate
}

// Scorer scores candidates with a fixed weight set.
type Scorer struct {
	weights Weights
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the weight set.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// NewScorer creates a Scorer with DefaultWeights.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active weight set.
func (s *Scorer) Weights() Weights { return s.weights }

// Score rates placing cand at position, given the previous one (prev1) and
// two (prev2) placed bands. Either may be nil near the start of the show.
func (s *Scorer) Score(cand, prev1, prev2 *features.Feature, position int, win Window) Breakdown {
	w := s.weights
	var b Breakdown

	if prev1 != nil && prev2 != nil && cand.SharesPerformerWithBoth(prev1, prev2) {
		b.TripleOverlap = w.TripleOverlap
	}
	if prev1 != nil {
		if cand.SharesPerformer(prev1) {
			b.AdjacentOverlap = w.AdjacentOverlap
		}
		if prev1.Heavy && cand.Heavy {
			b.HeavyAdjacency = w.HeavyAdjacency
		}
	}

	if PrefersLate(cand) {
		if win.IsLate(position) {
			b.Late = w.LatePreference
			if cand.IsJam {
				b.Late += w.JamLate
			}
		} else {
			b.Late = -w.LatePreference
		}
	}

	if cand.Preference == features.PreferenceEarly {
		if win.IsEarly(position) {
			b.Early = w.EarlyPreference
		} else {
			b.Early = -w.EarlyPreference
		}
	}

	b.TieBreak = -w.TieBreak * float64(cand.Index)
	return b
}
