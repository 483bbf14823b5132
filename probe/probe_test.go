package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelcast/reelcast/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func server(contentType string, delay time.Duration, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestIsMatroskaType(t *testing.T) {
	Convey("Content types are matched case-insensitively", t, func() {
		So(IsMatroskaType("video/x-matroska"), ShouldBeTrue)
		So(IsMatroskaType("Video/Matroska"), ShouldBeTrue)
		So(IsMatroskaType("video/mp4"), ShouldBeFalse)
		So(IsMatroskaType(""), ShouldBeFalse)
	})
}

func TestIsMatroska(t *testing.T) {
	Convey("Given a server announcing matroska", t, func() {
		var hits atomic.Int32
		srv := server("video/X-Matroska", 0, &hits)
		defer srv.Close()

		p := New()

		Convey("The probe reports true and sends a HEAD", func() {
			So(p.IsMatroska(context.Background(), srv.URL+"/v", nil), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 1)

			Convey("and the answer is remembered", func() {
				So(p.IsMatroska(context.Background(), srv.URL+"/v", nil), ShouldBeTrue)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("Concurrent probes of one URL coalesce", func() {
			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					p.IsMatroska(context.Background(), srv.URL+"/c", nil)
				}()
			}
			wg.Wait()
			So(hits.Load(), ShouldBeLessThanOrEqualTo, 8)
			So(p.IsMatroska(context.Background(), srv.URL+"/c", nil), ShouldBeTrue)
		})

		Convey("A disabled prober never asks", func() {
			So(New(Disabled()).IsMatroska(context.Background(), srv.URL, nil), ShouldBeFalse)
			So(hits.Load(), ShouldEqual, 0)
		})
	})

	Convey("Request headers are forwarded", t, func() {
		var got, method string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, method = r.Header.Get("Referer"), r.Method
			w.Header().Set("Content-Type", "video/x-matroska")
		}))
		defer srv.Close()

		So(New().IsMatroska(context.Background(), srv.URL, map[string]string{"Referer": "https://example.org"}), ShouldBeTrue)
		So(got, ShouldEqual, "https://example.org")
		So(method, ShouldEqual, http.MethodHead)
	})

	Convey("Failures yield false", t, func() {
		Convey("A slow server times out", func() {
			var hits atomic.Int32
			srv := server("video/x-matroska", time.Second, &hits)
			defer srv.Close()

			started := time.Now()
			So(New(WithTimeout(50*time.Millisecond)).IsMatroska(context.Background(), srv.URL, nil), ShouldBeFalse)
			So(time.Since(started), ShouldBeLessThan, time.Second)
		})

		Convey("A cancelled context aborts", func() {
			var hits atomic.Int32
			srv := server("video/x-matroska", 0, &hits)
			defer srv.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(New().IsMatroska(ctx, srv.URL, nil), ShouldBeFalse)
		})

		Convey("Non-http URLs are never probed", func() {
			So(New().IsMatroska(context.Background(), "magnet:?xt=urn:btih:abc", nil), ShouldBeFalse)
			So(New().IsMatroska(context.Background(), "::bad", nil), ShouldBeFalse)
		})
	})
}

func TestContainer(t *testing.T) {
	Convey("Given a prober that never reaches the network", t, func() {
		p := New(Disabled())
		ctx := context.Background()

		Convey("The URL extension decides", func() {
			So(p.Container(ctx, stream.Stream{URL: "https://cdn/x/Movie.MKV?token=1"}), ShouldEqual, MKV)
			So(p.Container(ctx, stream.Stream{URL: "https://cdn/live/index.m3u8"}), ShouldEqual, M3U8)
			So(p.Container(ctx, stream.Stream{URL: "https://cdn/a.mp4"}), ShouldEqual, MP4)
		})

		Convey("The filename hint is used next", func() {
			s := stream.Stream{URL: "https://cdn/resolve/123", Hints: stream.Hints{Filename: "Movie.2019.1080p.mkv"}}
			So(p.Container(ctx, s), ShouldEqual, MKV)
		})

		Convey("Unknown stays empty", func() {
			So(p.Container(ctx, stream.Stream{URL: "https://cdn/resolve/123"}), ShouldBeEmpty)
		})
	})

	Convey("An opaque URL is probed", t, func() {
		var hits atomic.Int32
		srv := server("video/x-matroska", 0, &hits)
		defer srv.Close()

		So(New().Container(context.Background(), stream.Stream{URL: srv.URL + "/play/42"}), ShouldEqual, MKV)
	})
}
