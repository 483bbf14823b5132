package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reelcast/reelcast/autoplay"
	"github.com/reelcast/reelcast/cache"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/extract"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/playback"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/probe"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/query"
	"github.com/reelcast/reelcast/resolve"
	"github.com/reelcast/reelcast/section"
	"github.com/reelcast/reelcast/stream"
	"github.com/reelcast/reelcast/style"
	"github.com/reelcast/reelcast/util"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("type", "t", "", "Content type: movie or series (remembered per content id)")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{constant.ContentMovie, constant.ContentSeries}, cobra.ShellCompDirectiveNoFileComp
	}))
	resolveCmd.Flags().StringP("episode", "e", "", "Episode id, e.g. tt0903747:1:1")

	resolveCmd.Flags().StringSliceP("source", "s", []string{}, "Only ask these providers (fuzzy matched)")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("source", completionSources))

	resolveCmd.Flags().StringP("mode", "m", "", "Display mode: per-provider or grouped")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{constant.DisplayPerProvider, constant.DisplayGrouped}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StreamsDisplayMode, resolveCmd.Flags().Lookup("mode")))

	resolveCmd.Flags().String("sort", "", "Sort mode: quality-then-scraper or scraper-order")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{constant.SortQualityThenScraper, constant.SortScraperOrder}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StreamsSortMode, resolveCmd.Flags().Lookup("sort")))

	resolveCmd.Flags().StringSliceP("exclude-quality", "Q", []string{}, "Hide scraper streams of these qualities (e.g. Auto, 480p)")
	lo.Must0(viper.BindPFlag(key.StreamsExcludedQualities, resolveCmd.Flags().Lookup("exclude-quality")))
	resolveCmd.Flags().StringSliceP("exclude-language", "L", []string{}, "Hide scraper streams in these languages (e.g. latin, german)")
	lo.Must0(viper.BindPFlag(key.StreamsExcludedLanguages, resolveCmd.Flags().Lookup("exclude-language")))

	resolveCmd.Flags().BoolP("autoplay", "a", false, "Play the best stream without asking")
	lo.Must0(viper.BindPFlag(key.AutoplayEnable, resolveCmd.Flags().Lookup("autoplay")))

	resolveCmd.Flags().BoolP("json", "j", false, "Print the listing as JSON and exit")
	resolveCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")
	resolveCmd.Flags().BoolP("resume", "r", false, "Replay the last stream picked for this content if it is still fresh")
	resolveCmd.Flags().BoolP("no-play", "n", false, "Print the picked stream URL instead of starting the player")
	resolveCmd.Flags().String("poster", "", "Artwork URL remembered with the picked stream")

	resolveCmd.MarkFlagsMutuallyExclusive("json", "autoplay")
	resolveCmd.SetOut(os.Stdout)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <content-id>",
	Short: "Fetch, rank and play streams for a movie or an episode",
	Example: constant.App + " resolve tt0111161\n" +
		constant.App + " resolve tt0903747 -t series -e tt0903747:1:1 --autoplay",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(printSchema(cmd.OutOrStdout()))
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handleErr(runResolve(ctx, cmd, contentKey(cmd, args[0])))
	},
}

func contentKey(cmd *cobra.Command, id string) stream.Key {
	k := stream.Key{
		ContentID: id,
		EpisodeID: lo.Must(cmd.Flags().GetString("episode")),
	}

	switch t := lo.Must(cmd.Flags().GetString("type")); {
	case t != "":
		k.ContentType = t
	case k.EpisodeID != "":
		k.ContentType = constant.ContentSeries
	default:
		k.ContentType = query.TypeOf(id).OrElse(constant.ContentMovie)
	}

	return k
}

func resolverFromConfig() *resolve.Resolver {
	return resolve.New(
		resolve.WithStillFetchingAfter(time.Duration(viper.GetInt(key.ResolveStillFetchingAfter))*time.Millisecond),
		resolve.WithNoSourcesDebounce(time.Duration(viper.GetInt(key.ResolveNoSourcesDebounce))*time.Millisecond),
		resolve.WithProviderTimeout(time.Duration(viper.GetInt(key.StreamsProviderTimeout))*time.Second),
	)
}

// selectProviders narrows ps to the names given with --source.
func selectProviders(ps []provider.Provider, names []string) ([]provider.Provider, error) {
	if len(names) == 0 {
		return ps, nil
	}

	selected := make([]provider.Provider, 0, len(names))
	for _, name := range names {
		p, err := provider.Find(ps, name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, p)
	}

	return lo.UniqBy(selected, provider.Provider.ID), nil
}

func runResolve(ctx context.Context, cmd *cobra.Command, k stream.Key) error {
	var (
		asJSON = lo.Must(cmd.Flags().GetBool("json"))
		noPlay = lo.Must(cmd.Flags().GetBool("no-play"))
		poster = lo.Must(cmd.Flags().GetString("poster"))
		p      = prefs.FromConfig()
		store  = cache.New(where.Streams())
	)

	if lo.Must(cmd.Flags().GetBool("resume")) {
		if e, ok := store.Get(k).Get(); ok {
			fmt.Printf("%s Resuming %s from %s\n", icon.Get(icon.Cached), style.Bold(e.Quality), e.ProviderName)
			return play(ctx, e.Stream, noPlay)
		}
		log.Infof("resume %s: nothing cached", k)
	}

	ps, err := provider.Load()
	if err != nil {
		return err
	}

	defer provider.Close(ps)

	selected, err := selectProviders(ps, lo.Must(cmd.Flags().GetStringSlice("source")))
	if err != nil {
		return err
	}

	// Providers still running when we return are cancelled and their answers dropped.
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := resolverFromConfig()
	defer r.Reset()
	r.Resolve(rctx, k, selected)

	var (
		gate   = autoplay.NewGate(p.AutoplayTimeout)
		picked = make(chan mo.Option[stream.Stream], 1)
		until  = r.Done()
	)

	if p.AutoplayBestStream {
		autoDone := make(chan struct{})
		go func() {
			defer close(autoDone)
			picked <- gate.Await(ctx, r, p)
		}()
		until = autoDone
	}

	interactive := !asJSON && term.IsTerminal(int(os.Stdout.Fd()))
	watch(ctx, r, until, interactive)

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := r.Snapshot()
	if snap.Phase == resolve.NoSources {
		return noSourcesError()
	}

	sections := section.Build(snap.Results, p, section.Order{Installed: snap.Installed, Response: snap.Response})

	if asJSON {
		return printJSON(cmd.OutOrStdout(), snap, sections, p)
	}

	reportFailures(snap)

	manual := func() (stream.Stream, error) {
		if len(sections) == 0 {
			return stream.Stream{}, errors.New("no streams found")
		}
		renderSections(cmd.OutOrStdout(), sections, terminalWidth())
		return pick(sections)
	}

	var choice stream.Stream
	if p.AutoplayBestStream {
		best, ok := (<-picked).Get()
		if !ok {
			return errors.New("nothing playable was found")
		}
		choice = best
		fmt.Printf("%s Autoplaying %s\n", icon.Get(icon.Auto), describe(choice))

		var fallback func() (stream.Stream, error)
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fallback = func() (stream.Stream, error) {
				gate.Disable()
				fmt.Printf("%s The top ranked stream cannot be played directly, pick another\n", icon.Get(icon.Warn))
				return manual()
			}
		}
		choice, err = playBest(choice, func(s stream.Stream) error { return play(ctx, s, noPlay) }, fallback)
	} else {
		if choice, err = manual(); err == nil {
			err = play(ctx, choice, noPlay)
		}
	}
	if err != nil {
		return err
	}

	entry := cache.Entry{
		Stream:       choice,
		Quality:      qualityLabel(extract.Extract(choice)),
		Poster:       poster,
		ProviderName: providerName(snap, choice.ProviderID),
	}
	if err := store.Put(k, entry, time.Duration(viper.GetInt(key.CacheTTL))*time.Second); err != nil {
		log.Warnf("cache %s: %s", k, err)
	}

	if err := query.Remember(k, 1); err != nil {
		log.Warnf("remember %s: %s", k, err)
	}

	return nil
}

// watch shows a progress line until until is closed.
func watch(ctx context.Context, r *resolve.Resolver, until <-chan struct{}, interactive bool) {
	erase := func() {}
	defer func() { erase() }()

	for {
		if interactive {
			erase()
			erase = util.PrintErasable(progressLine(r.Snapshot()))
		}

		select {
		case <-until:
			return
		case <-ctx.Done():
			return
		case <-r.Updates():
		}
	}
}

func progressLine(snap resolve.Snapshot) string {
	total := len(snap.Statuses)
	answered := total - snap.Pending()

	switch snap.Phase {
	case resolve.StillFetching:
		return fmt.Sprintf("%s Still fetching... %d of %d providers answered", icon.Get(icon.Progress), answered, total)
	case resolve.Loading:
		return fmt.Sprintf("%s Fetching streams from %s (%d answered)", icon.Get(icon.Progress), util.Quantify(total, "provider", "providers"), answered)
	default:
		return fmt.Sprintf("%s Looking for providers...", icon.Get(icon.Search))
	}
}

func reportFailures(snap resolve.Snapshot) {
	for _, st := range snap.Failed() {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s: %s\n", icon.Get(icon.Warn), st.Name, st.Message)
	}
}

func pick(sections []section.Section) (stream.Stream, error) {
	var (
		options []string
		streams []stream.Stream
	)
	for _, sec := range sections {
		for _, s := range sec.Data {
			options = append(options, fmt.Sprintf("[%s] %s", sec.Title, describe(s)))
			streams = append(streams, s)
		}
	}

	var index int
	prompt := &survey.Select{
		Message:  "Pick a stream",
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return stream.Stream{}, err
	}

	return streams[index], nil
}

func play(ctx context.Context, s stream.Stream, noPlay bool) error {
	var prober playback.ContainerProber
	if viper.GetBool(key.ProbeEnable) {
		prober = probe.New(probe.WithTimeout(time.Duration(viper.GetInt(key.ProbeTimeout)) * time.Millisecond))
	}

	h, err := playback.Prepare(ctx, s, prober)
	if err != nil {
		return err
	}

	if noPlay {
		fmt.Println(h.URL)
		return nil
	}

	name := viper.GetString(key.Player)
	if !checkPlayer(name) {
		return fmt.Errorf("player %s is not available", name)
	}

	pl, err := playback.New(name)
	if err != nil {
		return err
	}

	fmt.Printf("%s Playing %s\n", icon.Get(icon.Play), h.Title)
	return pl.Play(h)
}

func providerName(snap resolve.Snapshot, id string) string {
	if e, ok := snap.Results[id]; ok && e.ProviderName != "" {
		return e.ProviderName
	}
	return id
}

func terminalWidth() int {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// playBest plays the autoplay pick. Magnets and empty URLs cannot be handed to a player,
// so those go through fallback when one is given and fail with a hint otherwise.
func playBest(best stream.Stream, play func(stream.Stream) error, fallback func() (stream.Stream, error)) (stream.Stream, error) {
	err := play(best)
	if !errors.Is(err, playback.ErrUnsupportedStream) {
		return best, err
	}
	if fallback == nil {
		return best, fmt.Errorf("autoplay: the top ranked stream cannot be played directly, pick one without --autoplay: %w", err)
	}

	choice, err := fallback()
	if err != nil {
		return choice, err
	}
	return choice, play(choice)
}
