package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/modid"
	"github.com/perlytiara/modsync/pkg/types"
)

// ReadInventory lists the mod files in a mods directory, newest first.
// Disabled jars (.jar.disabled) are included so later stages can protect
// them. A missing directory is an empty inventory, not an error.
func ReadInventory(modsDir string) ([]types.ModFile, error) {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileSystem, "reading mods directory %s", modsDir)
	}

	var mods []types.ModFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".jar") && !strings.HasSuffix(lower, ".jar.disabled") {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileSystem, "stat %s", filepath.Join(modsDir, name))
		}

		id := modid.Normalize(name)
		mods = append(mods, types.ModFile{
			RawFilename:   name,
			CanonicalName: id.Name,
			Version:       id.Version,
			FileSizeBytes: info.Size(),
			LastModified:  info.ModTime(),
			Ambiguous:     id.Ambiguous,
			Disabled:      strings.HasSuffix(lower, ".disabled"),
		})
	}

	sort.Slice(mods, func(i, j int) bool {
		if !mods[i].LastModified.Equal(mods[j].LastModified) {
			return mods[i].LastModified.After(mods[j].LastModified)
		}
		return mods[i].RawFilename > mods[j].RawFilename
	})
	return mods, nil
}
