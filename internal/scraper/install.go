package scraper

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/network"
)

// Extension is the file extension of scraper scripts.
const Extension = ".lua"

// Install downloads the script at rawURL into dir. An existing script with identical
// content is left alone, in which case changed is false.
func Install(ctx context.Context, client *http.Client, rawURL, dir string) (target string, changed bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("invalid url: %w", err)
	}

	name := path.Base(u.Path)
	if !strings.HasSuffix(name, Extension) {
		return "", false, fmt.Errorf("%s is not a lua script", rawURL)
	}
	target = filepath.Join(dir, name)

	req, err := network.NewRequest(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("download %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	if local, err := filesystem.API().ReadFile(target); err == nil && sha256.Sum256(local) == sha256.Sum256(body) {
		log.Infof("scraper %s is up to date", name)
		return target, false, nil
	}

	// swap through a temporary file so a half-written script is never loaded
	tmp := target + ".tmp"
	if err := filesystem.API().WriteFile(tmp, body, 0644); err != nil {
		return "", false, err
	}

	if err := filesystem.API().Rename(tmp, target); err != nil {
		_ = filesystem.API().Remove(tmp)
		return "", false, err
	}

	Forget(target)
	log.Infof("installed scraper %s", name)
	return target, true, nil
}
