package launcher

import (
	"github.com/perlytiara/modsync/pkg/types"
)

// KindSpec is one row of the launcher detection table: everything the engine
// knows about a launcher kind's on-disk layout.
type KindSpec struct {
	Kind types.LauncherKind

	// Marker is the configuration file whose presence signals this kind.
	Marker string

	// Container is the directory holding instances or profiles, relative to
	// the launcher root. Empty for the official launcher, whose profiles
	// live inside the marker file itself.
	Container string

	// ModsSubpaths are the candidate mods directories relative to an
	// instance directory, probed in order.
	ModsSubpaths []string

	// InstanceMeta is the per-instance metadata file, relative to the
	// instance directory. Empty when metadata lives elsewhere.
	InstanceMeta string
}

// detectionTable lists every supported kind in default-target priority
// order. Discovery returns installations in this order; callers relying on
// "first wins" get the same launcher the original installers prefer.
var detectionTable = []KindSpec{
	{
		Kind:         types.KindAstralRinth,
		Marker:       "app-window-state.json",
		Container:    "profiles",
		ModsSubpaths: []string{"mods"},
		InstanceMeta: "profile.json",
	},
	{
		Kind:         types.KindModrinthApp,
		Marker:       "app-window-state.json",
		Container:    "profiles",
		ModsSubpaths: []string{"mods"},
		InstanceMeta: "profile.json",
	},
	{
		Kind:         types.KindPrism,
		Marker:       "prismlauncher.cfg",
		Container:    "instances",
		ModsSubpaths: []string{".minecraft/mods", "minecraft/mods"},
		InstanceMeta: "mmc-pack.json",
	},
	{
		Kind:         types.KindXMCL,
		Marker:       "launcher_profiles.json",
		Container:    "instances",
		ModsSubpaths: []string{"mods"},
		InstanceMeta: "instance.json",
	},
	{
		Kind:         types.KindOfficial,
		Marker:       "launcher_profiles.json",
		Container:    "",
		ModsSubpaths: []string{"mods"},
	},
	{
		Kind:         types.KindMultiMC,
		Marker:       "multimc.cfg",
		Container:    "instances",
		ModsSubpaths: []string{".minecraft/mods", "minecraft/mods"},
		InstanceMeta: "mmc-pack.json",
	},
	{
		Kind:         types.KindPrismCracked,
		Marker:       "prismlauncher.cfg",
		Container:    "instances",
		ModsSubpaths: []string{".minecraft/mods", "minecraft/mods"},
		InstanceMeta: "mmc-pack.json",
	},
	{
		Kind:         types.KindATLauncher,
		Marker:       "configs",
		Container:    "instances",
		ModsSubpaths: []string{"mods"},
		InstanceMeta: "instance.json",
	},
}

// Spec returns the detection-table row for a kind. Custom instances get a
// permissive spec probing every known mods location.
func Spec(kind types.LauncherKind) KindSpec {
	for _, s := range detectionTable {
		if s.Kind == kind {
			return s
		}
	}
	return KindSpec{
		Kind:         kind,
		ModsSubpaths: []string{"mods", ".minecraft/mods", "minecraft/mods"},
	}
}
