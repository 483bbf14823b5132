package provider

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/provider/custom"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// script is a scraper script that is loaded on first use.
type script struct {
	meta custom.Meta
	kind Kind

	once    sync.Once
	scraper *custom.Scraper
	err     error
}

func (l *script) ID() string   { return l.meta.ID }
func (l *script) Name() string { return l.meta.Name }
func (l *script) Kind() Kind   { return l.kind }
func (l *script) Logo() string { return l.meta.LogoURL }

func (l *script) FetchStreams(ctx context.Context, key stream.Key) ([]stream.Stream, error) {
	l.once.Do(func() {
		l.scraper, l.err = custom.Load(l.meta.Path)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.scraper.FetchStreams(ctx, key)
}

// Close releases the script's Lua state if it was loaded. Later calls fail with custom.ErrClosed.
func (l *script) Close() error {
	l.once.Do(func() {
		l.err = custom.ErrClosed
	})
	if l.scraper != nil {
		l.scraper.Close()
	}
	return nil
}

// Close releases every provider in ps that holds resources.
func Close(ps []Provider) {
	for _, p := range ps {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Warnf("close %s: %s", p.ID(), err)
			}
		}
	}
}

// FromMetas wraps scraper scripts as providers. Scripts whose id appears in installed
// become addons, ordered as in installed; the rest follow as scrapers in id order.
func FromMetas(metas []custom.Meta, installed []string) []Provider {
	installed = lo.Map(installed, func(id string, _ int) string {
		return strings.ToLower(strings.TrimSpace(id))
	})
	byID := lo.KeyBy(metas, func(m custom.Meta) string { return m.ID })

	var ps []Provider
	for _, id := range lo.Uniq(installed) {
		meta, ok := byID[id]
		if !ok {
			log.Warnf("installed source %q has no script", id)
			continue
		}
		ps = append(ps, &script{meta: meta, kind: KindAddon})
	}

	for _, meta := range metas {
		if lo.Contains(installed, meta.ID) {
			continue
		}
		ps = append(ps, &script{meta: meta, kind: KindScraper})
	}

	return ps
}

// Load returns the configured providers: installed addons first, then, when plugins are
// enabled, the remaining local scrapers.
func Load() ([]Provider, error) {
	metas, err := custom.Scrapers()
	if err != nil {
		return nil, fmt.Errorf("list scrapers: %w", err)
	}

	ps := FromMetas(metas, viper.GetStringSlice(key.SourcesInstalled))
	if !viper.GetBool(key.SourcesPluginsEnabled) {
		ps = lo.Filter(ps, func(p Provider, _ int) bool {
			return p.Kind() == KindAddon
		})
	}

	return ps, nil
}
