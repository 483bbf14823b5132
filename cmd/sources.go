package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/reelcast/reelcast/color"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/internal/scraper"
	"github.com/reelcast/reelcast/network"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/style"
	"github.com/reelcast/reelcast/util"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage stream providers",
}

func completionSources(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ps, err := provider.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(ps, func(p provider.Provider, _ int) string {
		return p.ID()
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress headers in the output")
	sourcesListCmd.Flags().BoolP("addons", "a", false, "Display only installed addons")
	sourcesListCmd.Flags().BoolP("scrapers", "s", false, "Display only local scrapers")

	sourcesListCmd.MarkFlagsMutuallyExclusive("addons", "scrapers")
	sourcesListCmd.SetOut(os.Stdout)
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all available providers",
	Run: func(cmd *cobra.Command, args []string) {
		ps, err := provider.Load()
		handleErr(err)

		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		list := func(kind provider.Kind, header string) {
			if printHeader {
				cmd.Println(headerStyle(header))
			}
			for _, p := range ps {
				if p.Kind() != kind {
					continue
				}
				if printHeader {
					cmd.Printf("%s %s %s\n", icon.Kind(p.Kind().String()), p.Name(), style.Faint("("+p.ID()+")"))
				} else {
					cmd.Println(p.ID())
				}
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("addons")):
			list(provider.KindAddon, "Installed:")
		case lo.Must(cmd.Flags().GetBool("scrapers")):
			list(provider.KindScraper, "Scrapers:")
		default:
			list(provider.KindAddon, "Installed:")
			if printHeader {
				cmd.Println()
			}
			list(provider.KindScraper, "Scrapers:")
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Scraper id(s) to uninstall")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", completionSources))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall local Lua scrapers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+scraper.Extension)
			handleErr(filesystem.API().Remove(path))
			scraper.Forget(path)
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)
}

var sourcesInstallCmd = &cobra.Command{
	Use:   "install <url>...",
	Short: "Download Lua scrapers into the sources directory",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, u := range args {
			target, changed, err := scraper.Install(context.Background(), network.Client, u, where.Sources())
			handleErr(err)

			if changed {
				fmt.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(util.FileStem(target)))
			} else {
				fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), style.Fg(color.Yellow)(util.FileStem(target)))
			}
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Display name of the new scraper")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Base URL of the site to scrape")
	sourcesGenCmd.Flags().StringP("logo", "l", "", "Logo URL shown next to the scraper")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua scraper",
	Long:  `Generate a Lua scraper script with metadata headers and a ` + constant.StreamsFn + ` function.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name      string
			URL       string
			Logo      string
			Author    string
			StreamsFn string
		}{
			Name:      lo.Must(cmd.Flags().GetString("name")),
			URL:       lo.Must(cmd.Flags().GetString("url")),
			Logo:      lo.Must(cmd.Flags().GetString("logo")),
			Author:    author,
			StreamsFn: constant.StreamsFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    func(items ...int) int { return lo.Max(items) },
		}

		tmpl, err := template.New("source").Funcs(funcMap).Parse(constant.SourceTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), strings.ToLower(util.SanitizeFilename(s.Name))+scraper.Extension)
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))

		cmd.Printf("%s %s\n", icon.Get(icon.Lua), target)
	},
}
