package cmd

import (
	"fmt"

	"github.com/reelcast/reelcast/cache"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/stream"
	"github.com/reelcast/reelcast/util"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is an artifact that "cache clear" can remove.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

func removeAll(location func() string) func() error {
	return func() error {
		return filesystem.API().RemoveAll(location())
	}
}

var clearTargets = []clearTarget{
	{"resolved streams", "streams", mo.Some("s"), func() error { return cache.New(where.Streams()).Clear() }},
	{"scraper responses", "responses", mo.Some("r"), removeAll(where.Responses)},
	{"content suggestions", "queries", mo.Some("q"), removeAll(where.Queries)},
	{"cache directory", "all", mo.Some("a"), removeAll(where.Cache)},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			cacheClearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			cacheClearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached streams and scraper responses",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}

func init() {
	cacheCmd.AddCommand(cacheEvictCmd)
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict <key>...",
	Short: "Forget the stream remembered for content keys",
	Long: "Forget the stream remembered for content keys, so --resume resolves them again.\n" +
		"Keys look like movie:tt0111161 or series:tt0903747:tt0903747:1:1, as printed in cache_key by resolve --json.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(evictKeys(cache.New(where.Streams()), args))
		fmt.Printf("%s Evicted %s\n", icon.Get(icon.Success), util.Quantify(len(args), "key", "keys"))
	},
}

// evictKeys removes every key in raw, or none if one of them does not parse.
func evictKeys(store *cache.Cache, raw []string) error {
	keys := make([]stream.Key, 0, len(raw))
	for _, r := range raw {
		k, ok := stream.ParseKey(r)
		if !ok {
			return fmt.Errorf("invalid key %q, expected <type>:<content-id>[:<episode-id>]", r)
		}
		keys = append(keys, k)
	}

	for _, k := range keys {
		if err := store.Evict(k); err != nil {
			return fmt.Errorf("evict %s: %w", k, err)
		}
	}
	return nil
}
