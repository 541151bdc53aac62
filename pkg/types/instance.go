package types

import "time"

// Instance is a launcher-managed game installation. The engine reads the
// fields below and mutates only the mods directory, the overrides tree and
// the automodpack metadata files.
type Instance struct {
	Name             string         `json:"name"`
	LauncherKind     LauncherKind   `json:"launcherType"`
	LauncherRoot     string         `json:"launcherPath"`
	InstancePath     string         `json:"instancePath"`
	MinecraftVersion string         `json:"minecraftVersion"`
	ModLoader        string         `json:"modLoader"`
	ModLoaderVersion string         `json:"modLoaderVersion,omitempty"`
	Mods             []ModFile      `json:"mods"`
	HasAutomodpack   bool           `json:"hasAutomodpack"`
	ServerProfile    *ServerProfile `json:"serverInfo,omitempty"`
}

// ModCount returns the number of mods in the instance inventory.
func (i *Instance) ModCount() int { return len(i.Mods) }

// ModFile is one file in an instance's mods directory. CanonicalName and
// Version are derived from the raw filename, never stored on disk.
//
// IsUserMod is relative to a manifest: the planner sets it when the file's
// canonical name has no manifest entry. The same file can be a user mod
// against one manifest and a managed mod against another.
type ModFile struct {
	RawFilename   string    `json:"filename"`
	CanonicalName string    `json:"name"`
	Version       string    `json:"version,omitempty"`
	FileSizeBytes int64     `json:"fileSize"`
	LastModified  time.Time `json:"lastModified"`
	IsUserMod     bool      `json:"isUserMod"`

	// Ambiguous marks compound filenames bundling several artifacts under
	// one name (a$b.jar). Those are never matched, merged or removed; the
	// planner preserves them and flags them for manual resolution.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// Disabled marks .jar.disabled files. They stay in the inventory so the
	// planner can protect them, but are never updated or removed.
	Disabled bool `json:"disabled,omitempty"`
}

// ServerProfile is the automodpack server metadata associated with an
// instance, refreshed from the manifest's source release when present.
type ServerProfile struct {
	Fingerprint string `json:"fingerprint"`
	ServerIP    string `json:"serverIp"`
	ServerPort  int    `json:"serverPort"`
	ServerName  string `json:"serverName"`
}

// ScanReport is the scan operation output: every instance found across all
// recognized launchers, plus every non-fatal condition hit on the way.
type ScanReport struct {
	Instances []Instance `json:"instances"`
	Warnings  []string   `json:"warnings,omitempty"`
}
