package icon

import (
	"testing"

	"github.com/reelcast/reelcast/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every icon renders in every variant", t, func() {
		for i := range icons {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("Unknown variants fall back to plain", t, func() {
		viper.Set(key.IconsVariant, "")
		So(Get(Fail), ShouldEqual, "Error")

		viper.Set(key.IconsVariant, " Emoji ")
		So(Get(Success), ShouldEqual, "✅")
	})

	Convey("Unregistered icons render empty", t, func() {
		So(Get(Icon(999)), ShouldBeEmpty)
	})

	Convey("Provider kinds have their own icons", t, func() {
		viper.Set(key.IconsVariant, "plain")
		So(Kind("addon"), ShouldEqual, Get(Addon))
		So(Kind("scraper"), ShouldEqual, Get(Scraper))
	})
}
