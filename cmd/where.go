package cmd

import (
	"os"

	"github.com/reelcast/reelcast/color"
	"github.com/reelcast/reelcast/config"
	"github.com/reelcast/reelcast/style"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type location struct {
	flag   string
	short  string
	title  string
	path   func() string
	hidden bool
}

var locations = []location{
	{flag: "config", short: "c", title: "Config file", path: config.File},
	{flag: "sources", short: "s", title: "Lua scrapers", path: where.Sources},
	{flag: "logs", short: "l", title: "Logs", path: where.Logs},
	{flag: "cache", title: "Cache", path: where.Cache},
	{flag: "streams", title: "Resumable streams", path: where.Streams, hidden: true},
	{flag: "queries", title: "Resolved content", path: where.Queries, hidden: true},
	{flag: "responses", title: "Scraper responses", path: where.Responses, hidden: true},
	{flag: "temp", title: "Temporary files", path: where.Temp, hidden: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	flags := whereCmd.Flags()
	for _, l := range locations {
		flags.BoolP(l.flag, l.short, false, l.title+" path")
		if l.hidden {
			lo.Must0(flags.MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where reelcast keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		title := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })

		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n%s\n", title(l.title), style.Fg(color.Yellow)("--"+l.flag), l.path())
		}
	},
}
