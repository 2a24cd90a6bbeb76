package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"

	"github.com/okian/tracklist/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "tracklist.db")
			convey.So(cfg.SearchLimit, convey.ShouldEqual, 10)
			convey.So(cfg.CatalogTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Language(), convey.ShouldEqual, language.English)
			convey.So(cfg.CatalogEnabled(), convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = " " },
			"unknown level":       func(c *config.Config) { c.LogLevel = "verbose" },
			"unknown format":      func(c *config.Config) { c.LogFormat = "xml" },
			"unknown driver":      func(c *config.Config) { c.StoreDriver = "postgres" },
			"sqlite without path": func(c *config.Config) { c.DatabasePath = "" },
			"zero search limit":   func(c *config.Config) { c.SearchLimit = 0 },
			"huge search limit":   func(c *config.Config) { c.SearchLimit = 51 },
			"negative timeout":    func(c *config.Config) { c.CatalogTimeoutMS = -1 },
			"bad language":        func(c *config.Config) { c.CollationLanguage = "not a tag!" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(name, convey.ShouldNotBeEmpty)
		}
	})

	convey.Convey("Given the memory driver without a database path", t, func() {
		cfg := config.New()
		cfg.StoreDriver = config.DriverMemory
		cfg.DatabasePath = ""
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})

	convey.Convey("Given both catalog credentials", t, func() {
		cfg := config.New()
		cfg.SpotifyClientID = "id"
		convey.So(cfg.CatalogEnabled(), convey.ShouldBeFalse)
		cfg.SpotifyClientSecret = "secret"
		convey.So(cfg.CatalogEnabled(), convey.ShouldBeTrue)
	})

	convey.Convey("Given only one catalog credential", t, func() {
		cfg := config.New()
		cfg.SpotifyClientSecret = "secret"
		err := cfg.Validate()
		convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		convey.So(errors.Is(err, config.ErrPartialCredentials), convey.ShouldBeTrue)
	})
}
