package orderctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/stageorder/internal/adapters/http/api"
	service "github.com/okian/stageorder/internal/app"
	"github.com/okian/stageorder/internal/domain/types"
	"github.com/okian/stageorder/internal/lineupfile"
	"github.com/okian/stageorder/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

const springLive = `
event_id: spring-live
bands:
  - {id: A, name: Alpha}
  - {id: B, name: Bravo, is_jam_session: true}
  - {id: C, name: Charlie, general_note: "最初がいいです"}
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunLocal(t *testing.T) {
	Convey("Given a lineup file", t, func() {
		path := writeFile(t, "spring.yaml", springLive)
		ctx := context.Background()

		Convey("JSON output lists the ordered bands", func() {
			var buf bytes.Buffer
			err := Run(ctx, &Config{Files: []string{path}, JSON: true}, &buf)
			So(err, ShouldBeNil)

			var orders []types.RunningOrder
			So(json.Unmarshal(buf.Bytes(), &orders), ShouldBeNil)
			So(len(orders), ShouldEqual, 1)
			So(orders[0].EventID, ShouldEqual, "spring-live")
			So(orders[0].Order[0].Band.ID, ShouldEqual, "C")
			So(orders[0].Order[2].Band.ID, ShouldEqual, "B")
		})

		Convey("Table output names every band", func() {
			var buf bytes.Buffer
			err := Run(ctx, &Config{Files: []string{path}, Explain: true}, &buf)
			So(err, ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "spring-live")
			for _, name := range []string{"Alpha", "Bravo", "Charlie", "SCORE", "jam"} {
				So(out, ShouldContainSubstring, name)
			}
		})

		Convey("A missing file is an error", func() {
			err := Run(ctx, &Config{Files: []string{path + ".missing"}}, &bytes.Buffer{})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Without input Run reports ErrNoInput", t, func() {
		err := Run(context.Background(), &Config{}, &bytes.Buffer{})
		So(errors.Is(err, ErrNoInput), ShouldBeTrue)
	})

	Convey("A generated lineup is ordered", t, func() {
		var buf bytes.Buffer
		err := Run(context.Background(), &Config{Generate: 9, Seed: 3, JSON: true}, &buf)
		So(err, ShouldBeNil)
		var orders []types.RunningOrder
		So(json.Unmarshal(buf.Bytes(), &orders), ShouldBeNil)
		So(len(orders[0].Order), ShouldEqual, 9)
	})

	Convey("-o writes the generated lineup instead of ordering it", t, func() {
		out := filepath.Join(t.TempDir(), "gen.yaml")
		var buf bytes.Buffer
		So(Run(context.Background(), &Config{Generate: 5, Seed: 11, Output: out}, &buf), ShouldBeNil)
		So(buf.Len(), ShouldEqual, 0)

		lineups, err := lineupfile.Load(out)
		So(err, ShouldBeNil)
		So(len(lineups), ShouldEqual, 1)
		So(len(lineups[0].Bands), ShouldEqual, 5)
	})
}

func TestRunRemote(t *testing.T) {
	Convey("Given a running server", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		srv := httptest.NewServer(api.NewServer(svc, api.WithAuthSecret("k")).Router(context.Background()))
		defer srv.Close()

		path := writeFile(t, "spring.yaml", springLive)

		Convey("Lineups are ordered through the batch endpoint", func() {
			tok, err := api.IssueToken([]byte("k"), "orderctl", time.Minute)
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			err = Run(context.Background(), &Config{Files: []string{path}, URL: srv.URL, Token: tok, JSON: true}, &buf)
			So(err, ShouldBeNil)
			var orders []types.RunningOrder
			So(json.Unmarshal(buf.Bytes(), &orders), ShouldBeNil)
			So(orders[0].Order[0].Band.ID, ShouldEqual, "C")
		})

		Convey("A missing token surfaces the server error", func() {
			err := Run(context.Background(), &Config{Files: []string{path}, URL: srv.URL}, &bytes.Buffer{})
			So(errors.Is(err, ErrServer), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "401")
		})
	})

	Convey("An unhealthy server fails the health check", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		err := Run(context.Background(), &Config{Generate: 3, URL: srv.URL}, &bytes.Buffer{})
		So(errors.Is(err, ErrServer), ShouldBeTrue)
	})
}

func TestTruncate(t *testing.T) {
	Convey("truncate shortens by runes", t, func() {
		So(truncate("short", 10), ShouldEqual, "short")
		So(strings.HasSuffix(truncate("後半でお願いしますよろしく", 5), "…"), ShouldBeTrue)
		So(len([]rune(truncate("後半でお願いしますよろしく", 5))), ShouldEqual, 5)
	})
}
