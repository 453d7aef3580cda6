package scheduler_test

import (
	"fmt"
	"testing"

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// lineupBuilder keeps the test fixtures short.
type lineupBuilder struct {
	bands   []*model.Band
	songs   []model.SongEntry
	members []model.MemberAssignment
}

func (l *lineupBuilder) band(id string, performers ...string) *model.Band {
	b := &model.Band{ID: id, Name: "Band " + id}
	l.bands = append(l.bands, b)
	for _, p := range performers {
		l.members = append(l.members, model.MemberAssignment{BandID: model.Ptr(id), PerformerID: model.Ptr(p)})
	}
	return b
}

func (l *lineupBuilder) keyboard(id string) {
	l.members = append(l.members, model.MemberAssignment{BandID: model.Ptr(id), Instrument: model.Ptr("Keyboard")})
}

func (l *lineupBuilder) order() []*model.Band {
	return scheduler.Order(l.bands, l.songs, l.members)
}

func ids(bands []*model.Band) []string {
	out := make([]string, len(bands))
	for i, b := range bands {
		out[i] = b.ID
	}
	return out
}

func indexOf(bands []*model.Band, id string) int {
	for i, b := range bands {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func TestOrder_Empty(t *testing.T) {
	Convey("Given no bands", t, func() {
		out := scheduler.Order(nil, nil, nil)

		Convey("Then the order should be empty", func() {
			So(out, ShouldNotBeNil)
			So(out, ShouldBeEmpty)
		})
	})
}

func TestOrder_NoSignals(t *testing.T) {
	Convey("Given bands with disjoint members and no preferences", t, func() {
		l := &lineupBuilder{}
		for i, id := range []string{"A", "B", "C", "D", "E"} {
			l.band(id, fmt.Sprintf("u%d", i))
		}

		Convey("Then the input order should be kept", func() {
			So(ids(l.order()), ShouldResemble, []string{"A", "B", "C", "D", "E"})
		})
	})
}

func TestOrder_LateNote(t *testing.T) {
	Convey("Given six bands where D asks for the second half", t, func() {
		l := &lineupBuilder{}
		for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
			l.band(id, fmt.Sprintf("u%d", i))
		}
		l.bands[3].GeneralNote = model.Ptr("後半希望")

		out := l.order()

		Convey("Then D should land in the late region", func() {
			So(indexOf(out, "D"), ShouldBeGreaterThanOrEqualTo, 4)
			So(ids(out), ShouldResemble, []string{"A", "B", "C", "E", "D", "F"})
		})
	})
}

func TestOrder_JamSession(t *testing.T) {
	Convey("Given six bands where B is a jam session", t, func() {
		l := &lineupBuilder{}
		for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
			l.band(id, fmt.Sprintf("u%d", i))
		}
		l.bands[1].IsJamSession = true

		out := l.order()

		Convey("Then the jam session should land at or after two thirds of the show", func() {
			So(indexOf(out, "B"), ShouldBeGreaterThanOrEqualTo, 6*2/3)
		})
	})
}

func TestOrder_EarlyNote(t *testing.T) {
	Convey("Given six bands where the last one asks for the first half", t, func() {
		l := &lineupBuilder{}
		for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
			l.band(id, fmt.Sprintf("u%d", i))
		}
		l.bands[5].GeneralNote = model.Ptr("前半にお願いします")

		out := l.order()

		Convey("Then it should land in the early region", func() {
			So(indexOf(out, "F"), ShouldBeLessThanOrEqualTo, 6/3-1)
		})
	})
}

func TestOrder_BigBandAndLongSet(t *testing.T) {
	Convey("Given a big band and a band with a long setlist", t, func() {
		l := &lineupBuilder{}
		l.band("A", "a1")
		l.band("Big", "b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8")
		l.band("C", "c1")
		l.band("Long", "l1")
		l.band("E", "e1")
		l.band("F", "f1")
		for i := 0; i < 3; i++ {
			l.songs = append(l.songs, model.SongEntry{BandID: model.Ptr("Long"), EntryType: model.EntrySong})
		}

		out := l.order()

		Convey("Then both should be pushed to the end", func() {
			So(indexOf(out, "Big"), ShouldBeGreaterThanOrEqualTo, 4)
			So(indexOf(out, "Long"), ShouldBeGreaterThanOrEqualTo, 4)
		})
	})
}

func TestOrder_HeavyGrouping(t *testing.T) {
	Convey("Given two keyboard bands separated by a plain band", t, func() {
		l := &lineupBuilder{}
		l.band("A", "a1")
		l.band("B", "b1")
		l.band("C", "c1")
		l.keyboard("A")
		l.keyboard("C")

		Convey("Then the keyboard bands should be grouped", func() {
			So(ids(l.order()), ShouldResemble, []string{"A", "C", "B"})
		})
	})
}

func TestOrder_SharedPerformers(t *testing.T) {
	Convey("Given three bands sharing one performer and two fillers", t, func() {
		l := &lineupBuilder{}
		l.band("A", "p")
		l.band("B", "p")
		l.band("C", "p")
		l.band("D", "d1")
		l.band("E", "e1")

		out := l.order()

		Convey("Then the shared performer should be spread out", func() {
			So(ids(out), ShouldResemble, []string{"A", "D", "B", "E", "C"})
		})

		Convey("Then the performer should never play three slots in a row", func() {
			for i := 2; i < len(out); i++ {
				run := 0
				for _, b := range out[i-2 : i+1] {
					if b.ID == "A" || b.ID == "B" || b.ID == "C" {
						run++
					}
				}
				So(run, ShouldBeLessThan, 3)
			}
		})
	})

	Convey("Given a third shared band with a strong late pull", t, func() {
		l := &lineupBuilder{}
		l.band("A", "p")
		l.band("B", "p")
		l.band("C", "p")
		l.band("D", "d1")
		l.bands[0].GeneralNote = model.Ptr("最初でお願いします")
		l.bands[2].IsJamSession = true
		l.keyboard("A")
		l.keyboard("B")
		l.keyboard("C")

		Convey("Then the triple penalty should override the bonuses", func() {
			So(ids(l.order()), ShouldResemble, []string{"A", "B", "D", "C"})
		})

		Convey("And with the penalty disabled the jam session should follow directly", func() {
			w := scoring.DefaultWeights()
			w.TripleOverlap = 0
			s := scheduler.New(scheduler.WithScorer(scoring.NewScorer(scoring.WithWeights(w))))
			So(ids(s.Order(l.bands, l.songs, l.members)), ShouldResemble, []string{"A", "B", "C", "D"})
		})
	})
}

func TestOrder_Invariants(t *testing.T) {
	Convey("Given a mixed lineup", t, func() {
		l := &lineupBuilder{}
		l.band("A", "p", "q")
		l.band("B", "q")
		l.band("C", "p", "r")
		l.band("D")
		l.band("E", "r", "s")
		l.band("F", "s", "p")
		l.band("G", "t")
		l.bands[1].IsJamSession = true
		l.bands[3].GeneralNote = model.Ptr("前半希望")
		l.bands[6].GeneralNote = model.Ptr("後ろの方で")
		l.keyboard("C")
		l.keyboard("G")
		l.songs = append(l.songs,
			model.SongEntry{BandID: model.Ptr("E"), EntryType: model.EntrySong},
			model.SongEntry{BandID: nil, EntryType: model.EntrySong},
		)

		before := make([]model.Band, len(l.bands))
		for i, b := range l.bands {
			before[i] = *b
		}

		out := l.order()

		Convey("Then every band should appear exactly once", func() {
			So(len(out), ShouldEqual, len(l.bands))
			seen := map[string]int{}
			for _, b := range out {
				seen[b.ID]++
			}
			for _, b := range l.bands {
				So(seen[b.ID], ShouldEqual, 1)
			}
		})

		Convey("Then the returned bands should be the input pointers", func() {
			for _, b := range out {
				So(b, ShouldPointTo, l.bands[indexOf(l.bands, b.ID)])
			}
		})

		Convey("Then the input should not be modified", func() {
			for i, b := range l.bands {
				So(*b, ShouldResemble, before[i])
			}
		})

		Convey("Then repeated calls should agree", func() {
			So(ids(l.order()), ShouldResemble, ids(out))
		})
	})
}

func TestPlan(t *testing.T) {
	Convey("Given a lineup with a late request", t, func() {
		l := &lineupBuilder{}
		for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
			l.band(id, fmt.Sprintf("u%d", i))
		}
		l.bands[3].GeneralNote = model.Ptr("後半希望")

		plan := scheduler.New().Plan(l.bands, l.songs, l.members)

		Convey("Then each placement should record its position and winning score", func() {
			So(len(plan), ShouldEqual, 6)
			for i, p := range plan {
				So(p.Position, ShouldEqual, i)
			}
			So(plan[4].Band.ID, ShouldEqual, "D")
			So(plan[4].Score.Late, ShouldEqual, scoring.LatePreferenceWeight)
			So(plan[4].Score.Total(), ShouldAlmostEqual, 49.97)
		})
	})
}
