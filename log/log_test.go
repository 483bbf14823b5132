package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type content string

func (c content) String() string { return string(c) }

func today() string {
	return filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
}

func TestSetup(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv(where.EnvConfigPath, "/config")
		defer viper.Reset()

		Convey("When logging is off nothing is written", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			Infof("hello")

			exists, _ := filesystem.API().Exists(today())
			So(exists, ShouldBeFalse)
		})

		Convey("When logging is on entries reach today's file", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			viper.Set(key.LogsJson, true)
			So(Setup(), ShouldBeNil)
			defer func() {
				viper.Set(key.LogsWrite, false)
				_ = Setup()
			}()

			WithProvider("local", content("movie:tt1")).Warn("provider failed")
			Debugf("probe %s", "x")

			data, err := filesystem.API().ReadFile(today())
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"provider":"local"`)
			So(string(data), ShouldContainSubstring, `"content":"movie:tt1"`)
			So(string(data), ShouldContainSubstring, "probe x")
		})

		Convey("An unknown level falls back to info", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "chatty")
			So(Setup(), ShouldBeNil)
			So(logger.GetLevel().String(), ShouldEqual, "info")

			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
		})
	})
}
