// Package model contains domain models passed between layers.
package model

// EntryType discriminates setlist entries.
type EntryType string

// Setlist entry kinds. Only songs count toward a band's song total.
const (
	EntrySong EntryType = "song"
	EntryMC   EntryType = "mc"
)

// Band is a performing group registered for an event.
type Band struct {
	ID           string  `json:"id" yaml:"id" db:"id" validate:"required"`
	Name         string  `json:"name" yaml:"name" db:"name" validate:"required"`
	GeneralNote  *string `json:"general_note,omitempty" yaml:"general_note,omitempty" db:"general_note"`
	IsJamSession bool    `json:"is_jam_session" yaml:"is_jam_session" db:"is_jam_session"`
}

// Note returns the general note or "" when it is absent.
func (b *Band) Note() string {
	if b == nil || b.GeneralNote == nil {
		return ""
	}
	return *b.GeneralNote
}

// SongEntry is one row of a band's setlist.
type SongEntry struct {
	BandID    *string   `json:"band_id,omitempty" yaml:"band_id,omitempty" db:"band_id"`
	EntryType EntryType `json:"entry_type" yaml:"entry_type" db:"entry_type" validate:"omitempty,oneof=song mc"`
}

// IsSong reports whether the entry counts toward the song total.
func (s SongEntry) IsSong() bool {
	return s.EntryType == EntrySong
}

// MemberAssignment places a performer in a band with optional gear labels.
type MemberAssignment struct {
	BandID         *string `json:"band_id,omitempty" yaml:"band_id,omitempty" db:"band_id"`
	PerformerID    *string `json:"performer_id,omitempty" yaml:"performer_id,omitempty" db:"performer_id"`
	Instrument     *string `json:"instrument,omitempty" yaml:"instrument,omitempty" db:"instrument"`
	CarryEquipment *string `json:"carry_equipment,omitempty" yaml:"carry_equipment,omitempty" db:"carry_equipment"`
}

// Lineup bundles everything registered for one event.
type Lineup struct {
	EventID string             `json:"event_id,omitempty" yaml:"event_id,omitempty"`
	Bands   []*Band            `json:"bands" yaml:"bands" validate:"dive,required"`
	Songs   []SongEntry        `json:"songs,omitempty" yaml:"songs,omitempty" validate:"dive"`
	Members []MemberAssignment `json:"members,omitempty" yaml:"members,omitempty"`
}

// Ptr returns a pointer to s. Handy for building optional fields.
func Ptr(s string) *string { return &s }

// Deref returns *s or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
