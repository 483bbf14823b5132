package prefs

import (
	"testing"
	"time"

	"github.com/reelcast/reelcast/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestFromConfig(t *testing.T) {
	Convey("Given configured preferences", t, func() {
		viper.Set(key.StreamsExcludedQualities, []string{"Auto", "480p"})
		viper.Set(key.StreamsExcludedLanguages, []string{"latin"})
		viper.Set(key.StreamsSortMode, "scraper-order")
		viper.Set(key.StreamsDisplayMode, "grouped")
		viper.Set(key.AutoplayEnable, true)
		viper.Set(key.AutoplayTimeout, 5)

		Reset(viper.Reset)

		p := FromConfig()
		So(p.ExcludedQualities, ShouldResemble, []string{"Auto", "480p"})
		So(p.ExcludedLanguages, ShouldResemble, []string{"latin"})
		So(p.SortMode, ShouldEqual, ScraperOrder)
		So(p.DisplayMode, ShouldEqual, Grouped)
		So(p.AutoplayBestStream, ShouldBeTrue)
		So(p.AutoplayTimeout, ShouldEqual, 5*time.Second)
	})

	Convey("Given unknown modes", t, func() {
		viper.Set(key.StreamsSortMode, "random")
		viper.Set(key.StreamsDisplayMode, "carousel")

		Reset(viper.Reset)

		p := FromConfig()
		So(p.SortMode, ShouldEqual, QualityThenScraper)
		So(p.DisplayMode, ShouldEqual, PerProvider)
		So(p.AutoplayTimeout, ShouldEqual, 20*time.Second)
	})
}
