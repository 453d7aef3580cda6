package features

import "github.com/okian/stageorder/internal/domain/model"

// bigBandMembers is the member count from which a band counts as big.
const bigBandMembers = 8

// Feature is the derived view of one band for a single scheduling call.
type Feature struct {
	// Index is the band's position in the input slice.
	Index       int
	MemberSet   map[string]struct{}
	MemberCount int
	SongCount   int
	Preference  Preference
	IsJam       bool
	BigBand     bool
	Heavy       bool
}

// SharesPerformer reports whether f and other have a performer in common.
func (f *Feature) SharesPerformer(other *Feature) bool {
	if other == nil {
		return false
	}
	small, large := f.MemberSet, other.MemberSet
	if len(small) > len(large) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// SharesPerformerWithBoth reports whether one performer appears in f, a and b.
func (f *Feature) SharesPerformerWithBoth(a, b *Feature) bool {
	if a == nil || b == nil {
		return false
	}
	for id := range f.MemberSet {
		_, inA := a.MemberSet[id]
		_, inB := b.MemberSet[id]
		if inA && inB {
			return true
		}
	}
	return false
}

// Builder turns raw lineup records into features.
type Builder struct {
	parsePreference PreferenceParser
	detectGear      GearDetector
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithPreferenceParser swaps the note classifier.
func WithPreferenceParser(p PreferenceParser) Option {
	return func(b *Builder) {
		if p != nil {
			b.parsePreference = p
		}
	}
}

// WithGearDetector swaps the heavy-gear classifier.
func WithGearDetector(d GearDetector) Option {
	return func(b *Builder) {
		if d != nil {
			b.detectGear = d
		}
	}
}

// NewBuilder creates a Builder with the default classifiers.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		parsePreference: ParsePreference,
		detectGear:      IsHeavyGear,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// aggregate collects per-band counts keyed by band id.
type aggregate struct {
	members  map[string]struct{}
	rawCount int
	songs    int
	heavy    bool
}

// Build returns one Feature per band, aligned with the bands slice.
// Songs and members without a band id are ignored. Inputs are not modified.
func (b *Builder) Build(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []Feature {
	aggs := make(map[string]*aggregate, len(bands))
	get := func(id string) *aggregate {
		a, ok := aggs[id]
		if !ok {
			a = &aggregate{members: make(map[string]struct{})}
			aggs[id] = a
		}
		return a
	}

	for _, s := range songs {
		if s.BandID == nil || !s.IsSong() {
			continue
		}
		get(*s.BandID).songs++
	}

	for _, m := range members {
		if m.BandID == nil {
			continue
		}
		a := get(*m.BandID)
		a.rawCount++
		if m.PerformerID != nil && *m.PerformerID != "" {
			a.members[*m.PerformerID] = struct{}{}
		}
		if !a.heavy && b.detectGear(model.Deref(m.Instrument), model.Deref(m.CarryEquipment)) {
			a.heavy = true
		}
	}

	out := make([]Feature, len(bands))
	for i, band := range bands {
		f := Feature{
			Index:      i,
			MemberSet:  map[string]struct{}{},
			Preference: b.parsePreference(band.Note()),
		}
		if band != nil {
			f.IsJam = band.IsJamSession
			if a, ok := aggs[band.ID]; ok {
				f.MemberSet = a.members
				f.MemberCount = max(len(a.members), a.rawCount)
				f.SongCount = a.songs
				f.Heavy = a.heavy
			}
		}
		f.BigBand = f.MemberCount >= bigBandMembers
		out[i] = f
	}
	return out
}
