// Package cache stores raw scraper responses on disk so repeated lookups skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/where"
)

// TTL is how long a response stays usable.
const TTL = 6 * time.Hour

// GenerateKey hashes the parts of a request, byte for byte, into a file name.
// Parts are length-prefixed so that moving bytes between them changes the key.
func GenerateKey(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		_, _ = fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Read decodes the entry stored under key into target. It reports false on a miss, an expired entry or a decode failure.
func Read(key string, target any) bool {
	path := filepath.Join(where.Responses(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(target); err != nil {
		log.Warnf("response cache: discarding %s: %s", key, err)
		return false
	}
	return true
}

// Write stores data under key, replacing the previous entry atomically.
func Write(key string, data any) error {
	path := filepath.Join(where.Responses(), key)
	tmp := path + ".tmp"

	f, err := filesystem.API().Create(tmp)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(data); err != nil {
		_ = f.Close()
		return err
	}
	_ = f.Close()

	return filesystem.API().Rename(tmp, path)
}

// CollectGarbage removes expired entries.
func CollectGarbage() {
	_ = filesystem.API().Walk(where.Responses(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			_ = filesystem.API().Remove(path)
		}
		return nil
	})
}
