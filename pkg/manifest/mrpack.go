package manifest

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"

	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/modid"
	"github.com/perlytiara/modsync/pkg/types"
)

const indexFile = "modrinth.index.json"

// loaderDependencies maps index dependency keys to loader names, in
// preference order for packs that somehow list several.
var loaderDependencies = []struct{ key, loader string }{
	{"fabric-loader", "fabric"},
	{"neoforge", "neoforge"},
	{"forge", "forge"},
	{"quilt-loader", "quilt"},
}

// parseMrpack turns a Modrinth-format modpack archive into a manifest.
// Mod entries are restricted to client-relevant jars under mods/ and
// deduplicated to one entry per canonical name. The overrides trees are
// extracted to a fresh temporary directory owned by the caller.
func parseMrpack(data []byte) (*types.ModpackManifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "opening modpack archive")
	}

	indexData, err := readArchiveFile(zr, indexFile)
	if err != nil {
		return nil, err
	}
	index := gjson.ParseBytes(indexData)
	if !index.Get("files").Exists() {
		return nil, errors.Newf(errors.ErrManifestParse, "%s has no files list", indexFile)
	}

	m := &types.ModpackManifest{
		Name:      index.Get("name").String(),
		VersionID: index.Get("versionId").String(),
	}

	deps := index.Get("dependencies")
	m.MinecraftVersion = deps.Get("minecraft").String()
	for _, d := range loaderDependencies {
		if v := deps.Get(d.key).String(); v != "" {
			m.ModLoader = d.loader
			m.ModLoaderVersion = v
			break
		}
	}

	var entries []types.ManifestEntry
	index.Get("files").ForEach(func(_, file gjson.Result) bool {
		entry, ok := fileEntry(file)
		if ok {
			entries = append(entries, entry)
		}
		return true
	})
	m.Entries = dedupEntries(entries)

	overrides, err := extractOverrides(zr)
	if err != nil {
		return nil, err
	}
	m.OverridesRoot = overrides
	return m, nil
}

// fileEntry maps one index file row to a manifest entry. Rows that are not
// client-side mod jars are dropped.
func fileEntry(file gjson.Result) (types.ManifestEntry, bool) {
	path := file.Get("path").String()
	if !strings.HasPrefix(path, "mods/") || !strings.HasSuffix(strings.ToLower(path), ".jar") {
		return types.ManifestEntry{}, false
	}

	env := types.EnvBoth
	switch {
	case file.Get("env.client").String() == "unsupported":
		return types.ManifestEntry{}, false
	case file.Get("env.server").String() == "unsupported":
		env = types.EnvClientOnly
	}

	var urls []string
	file.Get("downloads").ForEach(func(_, u gjson.Result) bool {
		urls = append(urls, u.String())
		return true
	})

	id := modid.Normalize(filepath.Base(path))
	return types.ManifestEntry{
		RelativePath:  path,
		CanonicalName: id.Name,
		Version:       id.Version,
		DownloadURLs:  urls,
		SHA1:          file.Get("hashes.sha1").String(),
		FileSizeBytes: file.Get("fileSize").Int(),
		Env:           env,
	}, true
}

// dedupEntries collapses entries sharing a canonical name, keeping the one
// with the highest version. Input order is preserved for distinct names.
func dedupEntries(entries []types.ManifestEntry) []types.ManifestEntry {
	best := make(map[string]int)
	var out []types.ManifestEntry
	for _, e := range entries {
		i, seen := best[e.CanonicalName]
		if !seen {
			best[e.CanonicalName] = len(out)
			out = append(out, e)
			continue
		}
		if compareVersions(e.Version, out[i].Version) > 0 {
			out[i] = e
		}
	}
	return out
}

// compareVersions orders version strings semver-first, falling back to a
// plain string compare for versions semver cannot parse.
func compareVersions(a, b string) int {
	va, vb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return strings.Compare(a, b)
}

// extractOverrides writes the archive's overrides trees to a temp directory
// and returns its path, or "" when the pack ships no overrides. The
// client-overrides tree is applied on top of the shared one.
func extractOverrides(zr *zip.Reader) (string, error) {
	prefixes := []string{"overrides/", "client-overrides/"}

	hasAny := false
	for _, f := range zr.File {
		for _, p := range prefixes {
			if strings.HasPrefix(f.Name, p) && !f.FileInfo().IsDir() {
				hasAny = true
			}
		}
	}
	if !hasAny {
		return "", nil
	}

	root, err := os.MkdirTemp("", "modsync-overrides-")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileSystem, "creating overrides directory")
	}

	// Stable application order: overrides/ first, then client-overrides/.
	files := append([]*zip.File{}, zr.File...)
	sort.SliceStable(files, func(i, j int) bool {
		return strings.HasPrefix(files[i].Name, prefixes[0]) &&
			!strings.HasPrefix(files[j].Name, prefixes[0])
	})

	for _, f := range files {
		var rel string
		for _, p := range prefixes {
			if strings.HasPrefix(f.Name, p) {
				rel = strings.TrimPrefix(f.Name, p)
				break
			}
		}
		if rel == "" || f.FileInfo().IsDir() {
			continue
		}
		if err := writeArchiveEntry(root, rel, f); err != nil {
			os.RemoveAll(root)
			return "", err
		}
	}
	return root, nil
}

func writeArchiveEntry(root, rel string, f *zip.File) error {
	dest := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
		return errors.Newf(errors.ErrManifestParse, "archive path %s escapes overrides root", f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "creating %s", filepath.Dir(dest))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestParse, "reading archive entry %s", f.Name)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "creating %s", dest)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "extracting %s", f.Name)
	}
	return nil
}

func readArchiveFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "opening %s", name)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "reading %s", name)
		}
		return data, nil
	}
	return nil, errors.Newf(errors.ErrManifestParse, "modpack archive has no %s", name)
}
