package types

// LauncherKind identifies one of the supported third-party launcher
// applications. The set is closed: adding a launcher means adding a kind here
// plus its row in the launcher detection table.
type LauncherKind string

const (
	KindOfficial     LauncherKind = "official"
	KindPrism        LauncherKind = "prism"
	KindPrismCracked LauncherKind = "prism-cracked"
	KindMultiMC      LauncherKind = "multimc"
	KindXMCL         LauncherKind = "xmcl"
	KindAstralRinth  LauncherKind = "astralrinth"
	KindModrinthApp  LauncherKind = "modrinth-app"
	KindATLauncher   LauncherKind = "atlauncher"

	// KindCustom covers a user-supplied game directory that belongs to no
	// recognized launcher. It is never produced by discovery.
	KindCustom LauncherKind = "custom"
)

// DisplayName returns the human-facing launcher name.
func (k LauncherKind) DisplayName() string {
	switch k {
	case KindOfficial:
		return "Official Minecraft Launcher"
	case KindPrism:
		return "PrismLauncher"
	case KindPrismCracked:
		return "PrismLauncher-Cracked"
	case KindMultiMC:
		return "MultiMC"
	case KindXMCL:
		return "X Minecraft Launcher"
	case KindAstralRinth:
		return "AstralRinth App"
	case KindModrinthApp:
		return "Modrinth App"
	case KindATLauncher:
		return "ATLauncher"
	case KindCustom:
		return "Custom"
	default:
		return string(k)
	}
}

// HasProfileStore reports whether the launcher keeps an embedded SQLite
// profile database that must be kept in sync after a mod update.
func (k LauncherKind) HasProfileStore() bool {
	return k == KindAstralRinth || k == KindModrinthApp
}

// LauncherInstallation is a launcher recognized on disk. Installations are
// rediscovered on every run and never persisted.
type LauncherInstallation struct {
	Kind     LauncherKind `json:"kind"`
	RootPath string       `json:"rootPath"`
}
