package provider

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/provider/custom"
	"github.com/reelcast/reelcast/stream"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func ids(ps []Provider) []string {
	return lo.Map(ps, func(p Provider, _ int) string { return p.ID() })
}

func none(context.Context, stream.Key) ([]stream.Stream, error) {
	return nil, nil
}

func TestFunc(t *testing.T) {
	Convey("Func providers", t, func() {
		addon := NewAddon("cinema", "Cinema", func(_ context.Context, k stream.Key) ([]stream.Stream, error) {
			return []stream.Stream{{URL: "https://example.com/" + k.ContentID}}, nil
		}).WithLogo("https://example.com/logo.png")

		So(addon.Kind(), ShouldEqual, KindAddon)
		So(InfoOf(addon), ShouldResemble, Info{ID: "cinema", Name: "Cinema", LogoURL: "https://example.com/logo.png"})

		streams, err := addon.FetchStreams(context.Background(), stream.Key{ContentID: "tt1"})
		So(err, ShouldBeNil)
		So(streams[0].URL, ShouldEqual, "https://example.com/tt1")

		So(NewScraper("s", "S", none).Kind(), ShouldEqual, KindScraper)
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given installed providers", t, func() {
		r := NewRegistry(Info{ID: "a"}, Info{ID: "b"}, Info{ID: "a"}, Info{ID: "c"})

		Convey("Duplicates keep their first position", func() {
			So(lo.Map(r.Installed(), func(i Info, _ int) string { return i.ID }), ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("Earlier providers have higher priority", func() {
			So(r.Priority("a"), ShouldEqual, 3)
			So(r.Priority("c"), ShouldEqual, 1)
			So(r.Priority("plugin"), ShouldEqual, 0)
			So(r.IsInstalled("b"), ShouldBeTrue)
			So(r.IsInstalled("plugin"), ShouldBeFalse)
		})
	})

	Convey("RegistryOf keeps only addons", t, func() {
		r := RegistryOf([]Provider{
			NewScraper("s", "S", none),
			NewAddon("x", "X", none),
			NewAddon("y", "Y", none),
		})
		So(r.Priority("x"), ShouldEqual, 2)
		So(r.IsInstalled("s"), ShouldBeFalse)
	})
}

func TestFromMetas(t *testing.T) {
	Convey("Given scraper scripts", t, func() {
		metas := []custom.Meta{{ID: "alpha"}, {ID: "beta"}, {ID: "gamma"}}

		Convey("Installed scripts become addons in install order", func() {
			ps := FromMetas(metas, []string{"Gamma", "alpha", "missing"})
			So(ids(ps), ShouldResemble, []string{"gamma", "alpha", "beta"})
			So(ps[0].Kind(), ShouldEqual, KindAddon)
			So(ps[1].Kind(), ShouldEqual, KindAddon)
			So(ps[2].Kind(), ShouldEqual, KindScraper)
		})

		Convey("Without installed scripts everything is a scraper", func() {
			ps := FromMetas(metas, nil)
			So(lo.EveryBy(ps, func(p Provider) bool { return p.Kind() == KindScraper }), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given scripts in the sources directory", t, func() {
		body := "function Streams(id) return { { url = 'https://example.com/' .. id } } end\n"
		for _, name := range []string{"one.lua", "two.lua"} {
			So(filesystem.API().WriteFile(filepath.Join(where.Sources(), name), []byte(body), 0644), ShouldBeNil)
		}
		viper.Set(key.SourcesInstalled, []string{"two"})
		viper.Set(key.SourcesPluginsEnabled, true)
		Reset(viper.Reset)

		Convey("Addons come first", func() {
			ps, err := Load()
			So(err, ShouldBeNil)
			So(ids(ps), ShouldResemble, []string{"two", "one"})

			Convey("and are runnable", func() {
				streams, err := ps[0].FetchStreams(context.Background(), stream.Key{ContentID: "tt9", ContentType: "movie"})
				So(err, ShouldBeNil)
				So(streams, ShouldHaveLength, 1)
				So(streams[0].ProviderID, ShouldEqual, "two")
			})
		})

		Convey("Closing releases loaded scripts and fails later calls", func() {
			ps, err := Load()
			So(err, ShouldBeNil)

			k := stream.Key{ContentID: "tt9", ContentType: "movie"}
			_, err = ps[0].FetchStreams(context.Background(), k)
			So(err, ShouldBeNil)

			Close(ps)
			Close(ps)

			for _, p := range ps {
				_, err := p.FetchStreams(context.Background(), k)
				So(errors.Is(err, custom.ErrClosed), ShouldBeTrue)
			}
		})

		Convey("Plugins can be disabled", func() {
			viper.Set(key.SourcesPluginsEnabled, false)
			ps, err := Load()
			So(err, ShouldBeNil)
			So(ids(ps), ShouldResemble, []string{"two"})
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given providers", t, func() {
		ps := []Provider{
			NewAddon("torrentio", "Torrentio", none),
			NewScraper("comet", "Comet", none),
		}

		Convey("Exact match by name", func() {
			p, err := Find(ps, "Comet")
			So(err, ShouldBeNil)
			So(p.ID(), ShouldEqual, "comet")
		})

		Convey("Fuzzy match", func() {
			p, err := Find(ps, "trrnt")
			So(err, ShouldBeNil)
			So(p.ID(), ShouldEqual, "torrentio")
		})

		Convey("Misses suggest the closest id", func() {
			_, err := Find(ps, "comit")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "did you mean comet")
		})
	})
}
