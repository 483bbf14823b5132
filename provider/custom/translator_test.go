package custom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func TestStreamFromTable(t *testing.T) {
	Convey("streamFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract a stream from a valid table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com/movie.mkv"))
			tbl.RawSetString("name", lua.LString("Demo 1080p"))
			tbl.RawSetString("title", lua.LString("Movie.2024.1080p.WEB-DL"))
			tbl.RawSetString("size", lua.LNumber(1073741824))
			tbl.RawSetString("cached", lua.LTrue)

			s, err := streamFromTable(tbl, "demo")
			So(err, ShouldBeNil)
			So(s.URL, ShouldEqual, "https://example.com/movie.mkv")
			So(s.Name, ShouldEqual, "Demo 1080p")
			So(s.ProviderID, ShouldEqual, "demo")
			So(s.SizeBytes, ShouldEqual, 1073741824)
			So(s.Cached, ShouldBeTrue)
		})

		Convey("Should extract headers and hints", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com/stream.m3u8"))

			headers := L.NewTable()
			headers.RawSetString("Referer", lua.LString("https://example.com"))
			headers.RawSetString("User-Agent", lua.LString("Mozilla/5.0"))
			tbl.RawSetString("headers", headers)

			hints := L.NewTable()
			hints.RawSetString("cached", lua.LTrue)
			hints.RawSetString("binge_group", lua.LString("demo-1080p"))
			tbl.RawSetString("hints", hints)

			s, err := streamFromTable(tbl, "demo")
			So(err, ShouldBeNil)
			So(s.Headers["Referer"], ShouldEqual, "https://example.com")
			So(s.Headers["User-Agent"], ShouldEqual, "Mozilla/5.0")
			So(s.Hints.Cached, ShouldBeTrue)
			So(s.Hints.BingeGroup, ShouldEqual, "demo-1080p")
			So(s.Cached, ShouldBeFalse)
		})

		Convey("Should fail when URL is missing", func() {
			tbl := L.NewTable()
			tbl.RawSetString("name", lua.LString("720p"))

			_, err := streamFromTable(tbl, "demo")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestStreamsFromTable(t *testing.T) {
	Convey("streamsFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		valid := L.NewTable()
		valid.RawSetString("url", lua.LString("https://example.com/a"))
		invalid := L.NewTable()

		Convey("Skips malformed entries when others are usable", func() {
			list := L.NewTable()
			list.Append(invalid)
			list.Append(valid)
			list.Append(lua.LString("junk"))

			streams, err := streamsFromTable(list, "demo")
			So(err, ShouldBeNil)
			So(streams, ShouldHaveLength, 1)
		})

		Convey("Reports an error when nothing is usable", func() {
			list := L.NewTable()
			list.Append(invalid)

			_, err := streamsFromTable(list, "demo")
			So(err, ShouldNotBeNil)
		})

		Convey("An empty table is an empty result", func() {
			streams, err := streamsFromTable(L.NewTable(), "demo")
			So(err, ShouldBeNil)
			So(streams, ShouldBeEmpty)
		})
	})
}
