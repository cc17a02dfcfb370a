package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cespare/xxhash"
)

// Fingerprint calculates a stable fingerprint for a set of shard files from
// their paths relative to base, sizes and modification times. Missing files
// are left out; an empty set yields an empty string.
func Fingerprint(base string, paths []string) (string, error) {
	type fileFingerprint struct {
		rel  string
		size int64
		mod  int64
	}

	entries := make([]fileFingerprint, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}

		rel := p
		if relPath, relErr := filepath.Rel(base, p); relErr == nil {
			rel = relPath
		}
		entries = append(entries, fileFingerprint{
			rel:  filepath.ToSlash(rel),
			size: info.Size(),
			mod:  info.ModTime().UnixNano(),
		})
	}
	if len(entries) == 0 {
		return "", nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].rel < entries[j].rel
	})

	hasher := xxhash.New()
	for _, e := range entries {
		fmt.Fprintf(hasher, "%s|%d|%d;", e.rel, e.size, e.mod)
	}
	return strconv.FormatUint(hasher.Sum64(), 16), nil
}

// FingerprintDir fingerprints every JSON file below dir, leaving out the
// excluded directories
func FingerprintDir(dir string, exclude ...string) (string, error) {
	files, err := FindShardFiles(dir, exclude...)
	if err != nil {
		return "", err
	}
	return Fingerprint(dir, files)
}
