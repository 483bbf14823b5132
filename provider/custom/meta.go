package custom

import (
	"bufio"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/internal/scraper"
	"github.com/reelcast/reelcast/util"
	"github.com/reelcast/reelcast/where"
)

// Meta describes a scraper script without running it.
type Meta struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo,omitempty"`
	Path    string `json:"path"`
}

var headerTag = regexp.MustCompile(`^--\s*@(\w+)\s+(.+?)\s*$`)

// IDfromPath derives the scraper id from its file name.
func IDfromPath(path string) string {
	return strings.ToLower(util.FileStem(path))
}

// ReadMeta parses the "-- @tag value" header at the top of a script.
// The header ends at the first line that is not a comment.
func ReadMeta(path string) (Meta, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return Meta{}, err
	}
	defer f.Close()

	meta := Meta{ID: IDfromPath(path), Path: path}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}

		m := headerTag.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		switch m[1] {
		case "name":
			meta.Name = m[2]
		case "logo":
			meta.LogoURL = m[2]
		}
	}

	if meta.Name == "" {
		meta.Name = util.FileStem(path)
	}

	return meta, scanner.Err()
}

// Scrapers lists the scripts in the sources directory, sorted by id.
func Scrapers() ([]Meta, error) {
	return ScrapersIn(where.Sources())
}

// ScrapersIn lists the scripts in dir, sorted by id.
func ScrapersIn(dir string) ([]Meta, error) {
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var metas []Meta
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != scraper.Extension {
			continue
		}

		meta, err := ReadMeta(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].ID < metas[j].ID
	})
	return metas, nil
}

// HasScrapers reports whether at least one script is present.
func HasScrapers() bool {
	metas, err := Scrapers()
	return err == nil && len(metas) > 0
}
