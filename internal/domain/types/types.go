// Package types contains the wire shapes shared by the API and the CLI.
package types

import (
	"github.com/okian/stageorder/internal/domain/features"
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/internal/domain/scoring"
)

// Slot is one position in a computed running order.
type Slot struct {
	Position int         `json:"position"`
	Band     *model.Band `json:"band"`
	Detail   *SlotDetail `json:"detail,omitempty"`
}

// SlotDetail explains why a band landed in its slot.
type SlotDetail struct {
	Score       float64             `json:"score"`
	Breakdown   scoring.Breakdown   `json:"breakdown"`
	Preference  features.Preference `json:"preference"`
	MemberCount int                 `json:"member_count"`
	SongCount   int                 `json:"song_count"`
	IsJam       bool                `json:"is_jam_session"`
	BigBand     bool                `json:"big_band"`
	Heavy       bool                `json:"heavy"`
}

// RunningOrder is the response for one event.
type RunningOrder struct {
	EventID string `json:"event_id,omitempty"`
	Order   []Slot `json:"order"`
}

// FromPlan converts placements into slots, attaching details when explain is set.
func FromPlan(eventID string, plan []scheduler.Placement, explain bool) RunningOrder {
	out := RunningOrder{EventID: eventID, Order: make([]Slot, len(plan))}
	for i, p := range plan {
		s := Slot{Position: p.Position, Band: p.Band}
		if explain {
			f := p.Feature
			s.Detail = &SlotDetail{
				Score:       p.Score.Total(),
				Breakdown:   p.Score,
				Preference:  f.Preference,
				MemberCount: f.MemberCount,
				SongCount:   f.SongCount,
				IsJam:       f.IsJam,
				BigBand:     f.BigBand,
				Heavy:       f.Heavy,
			}
		}
		out.Order[i] = s
	}
	return out
}
