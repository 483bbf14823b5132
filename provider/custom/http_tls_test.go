package custom

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	lua "github.com/yuin/gopher-lua"
)

type tlsCall struct {
	method  string
	url     string
	headers map[string]string
	body    string
}

func fakeTLS(resp tlsResponse, err error) (*[]tlsCall, func()) {
	var calls []tlsCall
	original := tlsDo
	tlsDo = func(_ context.Context, method, url string, headers map[string]string, body string) (tlsResponse, error) {
		calls = append(calls, tlsCall{method, url, headers, body})
		return resp, err
	}
	return &calls, func() { tlsDo = original }
}

// echoTLS answers every request with its own url and body, so responses for different requests differ.
func echoTLS() (*[]tlsCall, func()) {
	var calls []tlsCall
	original := tlsDo
	tlsDo = func(_ context.Context, method, url string, headers map[string]string, body string) (tlsResponse, error) {
		calls = append(calls, tlsCall{method, url, headers, body})
		return tlsResponse{Status: 200, Body: "served:" + url + "|" + body}, nil
	}
	return &calls, func() { tlsDo = original }
}

func newTLSState() *lua.LState {
	L := lua.NewState()
	registerTLSClient(L)
	return L
}

func TestHTTPTLS(t *testing.T) {
	Convey("Given http_tls backed by a fake transport", t, func() {
		filesystem.SetMemMapFs()
		calls, restore := fakeTLS(tlsResponse{Status: 200, Body: "hello"}, nil)
		Reset(restore)

		L := newTLSState()
		Reset(L.Close)

		Convey("get should return the body and forward headers", func() {
			err := L.DoString(`body = http_tls.get("https://example.com/a", { Referer = "https://example.com" })`)
			So(err, ShouldBeNil)
			So(L.GetGlobal("body").String(), ShouldEqual, "hello")
			So(*calls, ShouldHaveLength, 1)
			So((*calls)[0].method, ShouldEqual, "GET")
			So((*calls)[0].headers["Referer"], ShouldEqual, "https://example.com")
		})

		Convey("request should return status and body", func() {
			err := L.DoString(`res = http_tls.request{ url = "https://example.com/b", method = "post", body = "q=1" }`)
			So(err, ShouldBeNil)

			res := L.GetGlobal("res").(*lua.LTable)
			So(res.RawGetString("status"), ShouldEqual, lua.LNumber(200))
			So(res.RawGetString("body").String(), ShouldEqual, "hello")
			So((*calls)[0].method, ShouldEqual, "POST")
			So((*calls)[0].body, ShouldEqual, "q=1")
		})

		Convey("cached requests should hit the transport once", func() {
			script := `http_tls.request{ url = "https://example.com/cached", cache = true }`
			So(L.DoString(script), ShouldBeNil)
			So(L.DoString(script), ShouldBeNil)
			So(*calls, ShouldHaveLength, 1)
		})

		Convey("request without a url should raise", func() {
			So(L.DoString(`http_tls.request{}`), ShouldNotBeNil)
			So(*calls, ShouldBeEmpty)
		})
	})

	Convey("Given a failing transport", t, func() {
		_, restore := fakeTLS(tlsResponse{}, errors.New("connection reset"))
		Reset(restore)

		L := newTLSState()
		Reset(L.Close)

		Convey("get should raise a Lua error carrying the cause", func() {
			err := L.DoString(`http_tls.get("https://example.com")`)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "connection reset")
		})
	})
}

func TestHTTPTLSCacheKeys(t *testing.T) {
	Convey("Given cached http_tls requests answered by an echoing transport", t, func() {
		filesystem.SetMemMapFs()
		calls, restore := echoTLS()
		Reset(restore)

		L := newTLSState()
		Reset(L.Close)

		body := func(script string) string {
			So(L.DoString("res = "+script), ShouldBeNil)
			return L.GetGlobal("res").(*lua.LTable).RawGetString("body").String()
		}

		Convey("URLs differing only in case should not share an entry", func() {
			upper := body(`http_tls.request{ url = "https://cdn.example/v?token=AbCd", cache = true }`)
			lower := body(`http_tls.request{ url = "https://cdn.example/v?token=abcd", cache = true }`)

			So(upper, ShouldEqual, "served:https://cdn.example/v?token=AbCd|")
			So(lower, ShouldEqual, "served:https://cdn.example/v?token=abcd|")
			So(*calls, ShouldHaveLength, 2)
		})

		Convey("Bodies differing only in spaces should not share an entry", func() {
			spaced := body(`http_tls.request{ url = "https://cdn.example/search", method = "POST", body = "q=the matrix", cache = true }`)
			joined := body(`http_tls.request{ url = "https://cdn.example/search", method = "POST", body = "q=thematrix", cache = true }`)

			So(spaced, ShouldEqual, "served:https://cdn.example/search|q=the matrix")
			So(joined, ShouldEqual, "served:https://cdn.example/search|q=thematrix")
			So(*calls, ShouldHaveLength, 2)
		})

		Convey("Different header values should not share an entry", func() {
			body(`http_tls.request{ url = "https://cdn.example/h", headers = { Authorization = "a" }, cache = true }`)
			body(`http_tls.request{ url = "https://cdn.example/h", headers = { Authorization = "b" }, cache = true }`)
			So(*calls, ShouldHaveLength, 2)
		})

		Convey("An identical request should be served from the cache", func() {
			body(`http_tls.request{ url = "https://cdn.example/same", headers = { accept = "text/html" }, cache = true }`)
			body(`http_tls.request{ url = "https://cdn.example/same", headers = { accept = "text/html" }, cache = true }`)
			So(*calls, ShouldHaveLength, 1)
		})
	})
}

func TestHTTPTLSCacheWriteFailure(t *testing.T) {
	Convey("Given a response cache that cannot be written", t, func() {
		filesystem.SetMemMapFs()
		_, restore := echoTLS()
		Reset(restore)

		originalStore := storeResponse
		storeResponse = func(string, tlsResponse) error { return errors.New("disk full") }
		Reset(func() { storeResponse = originalStore })

		viper.Set(key.LogsWrite, true)
		So(log.Setup(), ShouldBeNil)
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			_ = log.Setup()
		})

		L := newTLSState()
		Reset(L.Close)

		Convey("The request should still succeed and the failure should be logged", func() {
			So(L.DoString(`res = http_tls.request{ url = "https://cdn.example/full", cache = true }`), ShouldBeNil)
			res := L.GetGlobal("res").(*lua.LTable)
			So(res.RawGetString("body").String(), ShouldEqual, "served:https://cdn.example/full|")

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			contents, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(contents), ShouldContainSubstring, "disk full")
		})
	})
}
