package lineupfile_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/lineupfile"
	. "github.com/smartystreets/goconvey/convey"
)

const singleYAML = `
event_id: spring-live
bands:
  - id: b1
    name: Opening Act
  - id: b2
    name: Closer
    general_note: 後半希望
    is_jam_session: true
songs:
  - band_id: b1
    entry_type: song
  - entry_type: mc
members:
  - band_id: b1
    performer_id: u1
    instrument: Keyboard
  - band_id: b2
`

const multiJSON = `{
  "lineups": [
    {"event_id": "a", "bands": [{"id": "x", "name": "X"}]},
    {"event_id": "b", "bands": [{"id": "y", "name": "Y"}, {"id": "z", "name": "Z"}]}
  ]
}`

func TestDecode(t *testing.T) {
	Convey("Given a single-lineup YAML document", t, func() {
		lineups, err := lineupfile.Decode(strings.NewReader(singleYAML))

		Convey("Then every record should be decoded", func() {
			So(err, ShouldBeNil)
			So(len(lineups), ShouldEqual, 1)
			l := lineups[0]
			So(l.EventID, ShouldEqual, "spring-live")
			So(len(l.Bands), ShouldEqual, 2)
			So(l.Bands[1].Note(), ShouldEqual, "後半希望")
			So(l.Bands[1].IsJamSession, ShouldBeTrue)
			So(l.Songs[1].BandID, ShouldBeNil)
			So(model.Deref(l.Members[0].Instrument), ShouldEqual, "Keyboard")
			So(l.Members[1].PerformerID, ShouldBeNil)
		})
	})

	Convey("Given a multi-lineup JSON document", t, func() {
		lineups, err := lineupfile.Decode(strings.NewReader(multiJSON))

		Convey("Then each lineup should be returned in order", func() {
			So(err, ShouldBeNil)
			So(len(lineups), ShouldEqual, 2)
			So(lineups[0].EventID, ShouldEqual, "a")
			So(len(lineups[1].Bands), ShouldEqual, 2)
		})
	})

	Convey("Given an empty document", t, func() {
		_, err := lineupfile.Decode(strings.NewReader(""))

		Convey("Then ErrEmpty should be returned", func() {
			So(errors.Is(err, lineupfile.ErrEmpty), ShouldBeTrue)
		})
	})

	Convey("Given malformed YAML", t, func() {
		_, err := lineupfile.Decode(strings.NewReader("bands: [unclosed"))

		Convey("Then a parse error should be returned", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, lineupfile.ErrEmpty), ShouldBeFalse)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a lineup file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "lineup.yaml")
		So(os.WriteFile(path, []byte(singleYAML), 0o600), ShouldBeNil)

		lineups, err := lineupfile.Load(path)

		Convey("Then it should load", func() {
			So(err, ShouldBeNil)
			So(lineups[0].EventID, ShouldEqual, "spring-live")
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := lineupfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("Then it should fail with the path in the error", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing.yaml")
		})
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	Convey("Given a generated lineup", t, func() {
		l := lineupfile.Generate(lineupfile.GenerateOptions{EventID: "gen", Bands: 4, Seed: 7})
		var buf bytes.Buffer

		Convey("When encoding and decoding it", func() {
			So(lineupfile.Encode(&buf, []model.Lineup{l}), ShouldBeNil)
			back, err := lineupfile.Decode(&buf)

			Convey("Then bands should survive", func() {
				So(err, ShouldBeNil)
				So(len(back), ShouldEqual, 1)
				So(back[0].EventID, ShouldEqual, "gen")
				So(len(back[0].Bands), ShouldEqual, 4)
				So(back[0].Bands[0].ID, ShouldEqual, l.Bands[0].ID)
			})
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given generator options", t, func() {
		opts := lineupfile.GenerateOptions{Bands: 10, Performers: 12, Seed: 42}

		Convey("Then generation should be reproducible", func() {
			a := lineupfile.Generate(opts)
			b := lineupfile.Generate(opts)
			So(a.EventID, ShouldEqual, b.EventID)
			So(len(a.Bands), ShouldEqual, 10)
			for i := range a.Bands {
				So(a.Bands[i].ID, ShouldEqual, b.Bands[i].ID)
			}
		})

		Convey("Then every member and song should reference a generated band", func() {
			l := lineupfile.Generate(opts)
			known := map[string]bool{}
			for _, b := range l.Bands {
				known[b.ID] = true
			}
			for _, m := range l.Members {
				So(known[model.Deref(m.BandID)], ShouldBeTrue)
			}
			for _, s := range l.Songs {
				So(known[model.Deref(s.BandID)], ShouldBeTrue)
			}
		})
	})
}
