package scraper

import (
	"testing"

	"github.com/reelcast/reelcast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPreCompileAndLoad(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		path := "/sources/answer.lua"
		So(filesystem.API().WriteFile(path, []byte("answer = 42"), 0644), ShouldBeNil)
		Reset(func() { Forget(path) })

		Convey("It runs inside the state", func() {
			L := lua.NewState()
			defer L.Close()

			So(PreCompileAndLoad(L, path), ShouldBeNil)
			So(L.GetGlobal("answer"), ShouldEqual, lua.LNumber(42))
		})

		Convey("Compiled bytecode is reused", func() {
			first, err := Compile(path)
			So(err, ShouldBeNil)

			So(filesystem.API().Remove(path), ShouldBeNil)
			second, err := Compile(path)
			So(err, ShouldBeNil)
			So(second, ShouldEqual, first)
		})
	})

	Convey("Syntax errors are reported", t, func() {
		path := "/sources/broken.lua"
		So(filesystem.API().WriteFile(path, []byte("function ("), 0644), ShouldBeNil)

		_, err := Compile(path)
		So(err, ShouldNotBeNil)
	})
}
