package lineupfile

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/stageorder/internal/domain/model"
)

// Generator defaults.
const (
	defaultBands         = 8
	defaultPerformers    = 24
	defaultMinMembers    = 3
	defaultMaxMembers    = 6
	defaultMaxSongs      = 4
	defaultJamRatio      = 0.1
	defaultKeyboardRatio = 0.3
	defaultNoteRatio     = 0.25
)

var (
	instruments = []string{"Vo", "Gt", "Ba", "Dr", "Key", "Syn", "Sax", "Tp"}
	notes       = []string{"前半にお願いします", "後半希望", "特になし", "最後がいいです", "早めだと助かります"}
)

// GenerateOptions shapes a synthetic lineup.
type GenerateOptions struct {
	EventID       string
	Bands         int
	Performers    int
	JamRatio      float64
	KeyboardRatio float64
	NoteRatio     float64
	Seed          int64
}

func (o *GenerateOptions) defaults() {
	if o.Bands <= 0 {
		o.Bands = defaultBands
	}
	if o.Performers <= 0 {
		o.Performers = defaultPerformers
	}
	if o.JamRatio <= 0 {
		o.JamRatio = defaultJamRatio
	}
	if o.KeyboardRatio <= 0 {
		o.KeyboardRatio = defaultKeyboardRatio
	}
	if o.NoteRatio <= 0 {
		o.NoteRatio = defaultNoteRatio
	}
}

// Generate builds a synthetic lineup. The same options always produce the
// same lineup, identifiers included.
func Generate(opts GenerateOptions) model.Lineup {
	opts.defaults()
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible fixtures

	newID := func() string {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}

	if opts.EventID == "" {
		opts.EventID = newID()
	}
	performers := make([]string, opts.Performers)
	for i := range performers {
		performers[i] = newID()
	}

	l := model.Lineup{EventID: opts.EventID}
	for i := 0; i < opts.Bands; i++ {
		b := &model.Band{
			ID:           newID(),
			Name:         fmt.Sprintf("Band %02d", i+1),
			IsJamSession: rng.Float64() < opts.JamRatio,
		}
		if rng.Float64() < opts.NoteRatio {
			b.GeneralNote = model.Ptr(notes[rng.Intn(len(notes))])
		}
		l.Bands = append(l.Bands, b)

		size := defaultMinMembers + rng.Intn(defaultMaxMembers-defaultMinMembers+1)
		keyboard := rng.Float64() < opts.KeyboardRatio
		for j, p := range rng.Perm(len(performers))[:min(size, len(performers))] {
			inst := instruments[rng.Intn(4)]
			if keyboard && j == 0 {
				inst = instruments[4+rng.Intn(2)]
			}
			l.Members = append(l.Members, model.MemberAssignment{
				BandID:      model.Ptr(b.ID),
				PerformerID: model.Ptr(performers[p]),
				Instrument:  model.Ptr(inst),
			})
		}

		for s := 0; s < 1+rng.Intn(defaultMaxSongs); s++ {
			l.Songs = append(l.Songs, model.SongEntry{BandID: model.Ptr(b.ID), EntryType: model.EntrySong})
		}
		l.Songs = append(l.Songs, model.SongEntry{BandID: model.Ptr(b.ID), EntryType: model.EntryMC})
	}
	return l
}
