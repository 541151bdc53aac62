package types

// Environment describes which side of a client/server split a manifest entry
// applies to.
type Environment string

const (
	EnvBoth       Environment = "both"
	EnvClientOnly Environment = "client-only"
	EnvServerOnly Environment = "server-only"
)

// ManifestEntry is one desired mod file in a modpack manifest. Download URLs
// are ordered: the first successful one wins.
//
// After fetch-time deduplication there is at most one entry per
// CanonicalName.
type ManifestEntry struct {
	RelativePath  string      `json:"path"`
	CanonicalName string      `json:"name"`
	Version       string      `json:"version,omitempty"`
	DownloadURLs  []string    `json:"downloads"`
	SHA1          string      `json:"sha1"`
	FileSizeBytes int64       `json:"fileSize"`
	Env           Environment `json:"environment"`
}

// Filename returns the entry's bare filename without the mods/ prefix.
func (e ManifestEntry) Filename() string {
	for i := len(e.RelativePath) - 1; i >= 0; i-- {
		if e.RelativePath[i] == '/' {
			return e.RelativePath[i+1:]
		}
	}
	return e.RelativePath
}

// ModpackManifest is the authoritative remote description of a desired
// package state. Fetched fresh per sync, never cached across invocations.
type ModpackManifest struct {
	PackageType      string          `json:"packageType"`
	Selector         string          `json:"selector"`
	Name             string          `json:"name"`
	VersionID        string          `json:"versionId"`
	MinecraftVersion string          `json:"minecraftVersion"`
	ModLoader        string          `json:"modLoader"`
	ModLoaderVersion string          `json:"modLoaderVersion,omitempty"`
	Entries          []ManifestEntry `json:"entries"`

	// OverridesRoot is a local directory holding the manifest's extracted
	// overrides tree, or "" when the pack ships none. It is temporary and
	// owned by the caller that fetched the manifest.
	OverridesRoot string `json:"-"`
}

// EntryByName returns the manifest entry for a canonical name, if any.
func (m *ModpackManifest) EntryByName(name string) (ManifestEntry, bool) {
	for _, e := range m.Entries {
		if e.CanonicalName == name {
			return e, true
		}
	}
	return ManifestEntry{}, false
}
