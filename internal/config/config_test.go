package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/stageorder/internal/config"
	"github.com/okian/stageorder/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.BatchLimit, convey.ShouldEqual, 64)
			convey.So(cfg.PreferenceLocale, convey.ShouldEqual, "ja")
			convey.So(cfg.Weights, convey.ShouldResemble, scoring.DefaultWeights())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configs", t, func() {
		ctx := context.Background()
		cases := map[string]func(*config.Config){
			"empty addr":      func(c *config.Config) { c.Addr = "" },
			"zero workers":    func(c *config.Config) { c.WorkerCount = 0 },
			"zero queue":      func(c *config.Config) { c.QueueSize = 0 },
			"zero batch":      func(c *config.Config) { c.BatchLimit = 0 },
			"unknown locale":  func(c *config.Config) { c.PreferenceLocale = "fr" },
			"unknown logging": func(c *config.Config) { c.LogFormat = "xml" },
		}

		for name, mutate := range cases {
			cfg := config.New(ctx)
			mutate(cfg)

			convey.Convey("Then "+name+" should be rejected", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
