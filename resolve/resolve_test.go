package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/stream"
	. "github.com/smartystreets/goconvey/convey"
)

var movie = stream.Key{ContentID: "tt0111161", ContentType: "movie"}

func returning(urls ...string) provider.FetchFunc {
	return func(_ context.Context, k stream.Key) ([]stream.Stream, error) {
		var out []stream.Stream
		for _, u := range urls {
			out = append(out, stream.Stream{URL: u, Name: k.ContentID})
		}
		return out, nil
	}
}

func failing(msg string) provider.FetchFunc {
	return func(context.Context, stream.Key) ([]stream.Stream, error) {
		return nil, errors.New(msg)
	}
}

func blocking(release <-chan struct{}, urls ...string) provider.FetchFunc {
	next := returning(urls...)
	return func(ctx context.Context, k stream.Key) ([]stream.Stream, error) {
		<-release
		return next(ctx, k)
	}
}

func wait(r *Resolver) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	So(r.Wait(ctx), ShouldBeNil)
}

// eventually polls the snapshot until cond holds or a second has passed.
func eventually(r *Resolver, cond func(Snapshot) bool) bool {
	deadline := time.After(time.Second)
	for {
		if cond(r.Snapshot()) {
			return true
		}
		select {
		case <-r.Updates():
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			return false
		}
	}
}

func TestResolve(t *testing.T) {
	Convey("Given three providers where the second fails", t, func() {
		r := New()
		ok := r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("a", "A", returning("a1", "a2", "a1")),
			provider.NewScraper("b", "B", failing("boom")),
			provider.NewScraper("c", "C", returning("c1")),
		})
		So(ok, ShouldBeTrue)
		wait(r)

		snap := r.Snapshot()

		Convey("The pass completes", func() {
			So(snap.Phase, ShouldEqual, Done)
			So(snap.Pending(), ShouldEqual, 0)
		})

		Convey("Only successful providers have results", func() {
			So(snap.Results.IDs(), ShouldResemble, []string{"a", "c"})
			So(snap.Results["a"].ProviderName, ShouldEqual, "A")
		})

		Convey("Duplicate URLs within a provider are dropped", func() {
			So(snap.Results["a"].Streams, ShouldHaveLength, 2)
		})

		Convey("Streams carry their provider id", func() {
			So(snap.Results["c"].Streams[0].ProviderID, ShouldEqual, "c")
		})

		Convey("The failure is recorded", func() {
			failed := snap.Failed()
			So(failed, ShouldHaveLength, 1)
			So(failed[0].ProviderID, ShouldEqual, "b")
			So(failed[0].Message, ShouldEqual, "boom")
			So(failed[0].CompletedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Statuses keep launch order", func() {
			So(snap.Statuses[0].ProviderID, ShouldEqual, "a")
			So(snap.Statuses[2].ProviderID, ShouldEqual, "c")
		})
	})

	Convey("A panicking provider becomes an error", t, func() {
		r := New()
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("p", "P", func(context.Context, stream.Key) ([]stream.Stream, error) {
				panic("nil map")
			}),
			provider.NewScraper("q", "Q", returning("q1")),
		})
		wait(r)

		snap := r.Snapshot()
		So(snap.Failed()[0].Message, ShouldContainSubstring, "nil map")
		So(snap.Results.IDs(), ShouldResemble, []string{"q"})
	})

	Convey("Response order follows arrival", t, func() {
		first, second := make(chan struct{}), make(chan struct{})
		r := New()
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("x", "X", blocking(second, "x1")),
			provider.NewScraper("y", "Y", blocking(first, "y1")),
		})

		close(first)
		So(eventually(r, func(s Snapshot) bool { return len(s.Response) == 1 }), ShouldBeTrue)
		close(second)
		wait(r)

		So(r.Snapshot().Response, ShouldResemble, []string{"y", "x"})
	})

	Convey("Installed providers are reported in order", t, func() {
		r := New()
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("s", "S", returning()),
			provider.NewAddon("i2", "I2", returning()),
			provider.NewAddon("i1", "I1", returning()),
		})
		wait(r)

		installed := r.Snapshot().Installed
		So(installed, ShouldHaveLength, 2)
		So(installed[0].ID, ShouldEqual, "i2")
	})
}

func TestSingleFlight(t *testing.T) {
	Convey("Given a running pass", t, func() {
		release := make(chan struct{})
		r := New()
		ps := []provider.Provider{provider.NewScraper("slow", "Slow", blocking(release, "s1"))}
		So(r.Resolve(context.Background(), movie, ps), ShouldBeTrue)

		Convey("The same key is a no-op", func() {
			So(r.Resolve(context.Background(), movie, ps), ShouldBeFalse)
			close(release)
			wait(r)
			So(r.Snapshot().Results.Len(), ShouldEqual, 1)

			Convey("and can run again once settled", func() {
				So(r.Resolve(context.Background(), movie, ps), ShouldBeTrue)
				wait(r)
			})
		})

		Convey("A different key supersedes it and stale answers are dropped", func() {
			other := stream.Key{ContentID: "tt0068646", ContentType: "movie"}
			So(r.Resolve(context.Background(), other, []provider.Provider{
				provider.NewScraper("slow", "Slow", returning("fresh")),
			}), ShouldBeTrue)
			wait(r)

			close(release)
			time.Sleep(50 * time.Millisecond)

			snap := r.Snapshot()
			So(snap.Key, ShouldResemble, other)
			So(snap.Results["slow"].Streams, ShouldHaveLength, 1)
			So(snap.Results["slow"].Streams[0].URL, ShouldEqual, "fresh")
		})
	})
}

func TestLifecycle(t *testing.T) {
	Convey("An empty pass reports still fetching after the threshold", t, func() {
		release := make(chan struct{})
		r := New(WithStillFetchingAfter(10 * time.Millisecond))
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("slow", "Slow", blocking(release, "s1")),
		})

		So(r.Snapshot().Phase, ShouldEqual, Loading)
		So(eventually(r, func(s Snapshot) bool { return s.Phase == StillFetching }), ShouldBeTrue)

		close(release)
		wait(r)
		So(r.Snapshot().Phase, ShouldEqual, Done)
	})

	Convey("A pass with results never reports still fetching", t, func() {
		release := make(chan struct{})
		r := New(WithStillFetchingAfter(20 * time.Millisecond))
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("fast", "Fast", returning("f1")),
			provider.NewScraper("slow", "Slow", blocking(release)),
		})

		So(eventually(r, func(s Snapshot) bool { return s.Results.Len() == 1 }), ShouldBeTrue)
		time.Sleep(40 * time.Millisecond)
		So(r.Snapshot().Phase, ShouldEqual, Loading)

		close(release)
		wait(r)
	})

	Convey("No providers settle as no sources after the debounce", t, func() {
		r := New(WithNoSourcesDebounce(10 * time.Millisecond))
		So(r.Resolve(context.Background(), movie, nil), ShouldBeTrue)
		So(r.Snapshot().Phase, ShouldEqual, Loading)

		wait(r)
		So(r.Snapshot().Phase, ShouldEqual, NoSources)
	})

	Convey("Provider timeouts become errors", t, func() {
		r := New(WithProviderTimeout(20 * time.Millisecond))
		r.Resolve(context.Background(), movie, []provider.Provider{
			provider.NewScraper("hang", "Hang", func(ctx context.Context, _ stream.Key) ([]stream.Stream, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
		})
		wait(r)

		So(r.Snapshot().Failed(), ShouldHaveLength, 1)
	})

	Convey("Timestamps come from the clock", t, func() {
		fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		r := New(WithClock(func() time.Time { return fixed }))
		r.Resolve(context.Background(), movie, []provider.Provider{provider.NewScraper("a", "A", returning("a1"))})
		wait(r)

		status := r.Snapshot().Statuses[0]
		So(status.StartedAt, ShouldEqual, fixed)
		So(status.CompletedAt, ShouldEqual, fixed)
	})

	Convey("Reset returns to idle", t, func() {
		r := New()
		r.Resolve(context.Background(), movie, []provider.Provider{provider.NewScraper("a", "A", returning("a1"))})
		wait(r)
		r.Reset()

		snap := r.Snapshot()
		So(snap.Phase, ShouldEqual, Idle)
		So(snap.Results, ShouldBeEmpty)
	})

	Convey("Snapshots are independent copies", t, func() {
		r := New()
		r.Resolve(context.Background(), movie, []provider.Provider{provider.NewScraper("a", "A", returning("a1"))})
		wait(r)

		snap := r.Snapshot()
		snap.Results["a"].Streams[0].URL = "mutated"
		So(r.Snapshot().Results["a"].Streams[0].URL, ShouldEqual, "a1")
	})
}
