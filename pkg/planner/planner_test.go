package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perlytiara/modsync/pkg/types"
)

func mod(filename, name, version string, age time.Duration) types.ModFile {
	return types.ModFile{
		RawFilename:   filename,
		CanonicalName: name,
		Version:       version,
		LastModified:  time.Now().Add(-age),
	}
}

func entry(path, name, version string) types.ManifestEntry {
	return types.ManifestEntry{
		RelativePath:  "mods/" + path,
		CanonicalName: name,
		Version:       version,
		DownloadURLs:  []string{"https://cdn.example/" + path},
		SHA1:          "deadbeef",
	}
}

func manifest(entries ...types.ManifestEntry) *types.ModpackManifest {
	return &types.ModpackManifest{Entries: entries}
}

func removals(p types.UpdatePlan) []string {
	var out []string
	for _, m := range p.ToRemove {
		out = append(out, m.RawFilename)
	}
	return out
}

func downloads(p types.UpdatePlan) []string {
	var out []string
	for _, e := range p.ToDownload {
		out = append(out, e.CanonicalName)
	}
	return out
}

func TestPlanMixedInventory(t *testing.T) {
	inventory := []types.ModFile{
		mod("sodium-0.5.6.jar", "sodium", "0.5.6", time.Hour),   // outdated
		mod("lithium-0.12.1.jar", "lithium", "0.12.1", time.Hour), // current
		mod("my-private-mod-1.0.jar", "my-private-mod", "1.0", time.Hour), // user mod
	}
	m := manifest(
		entry("sodium-0.5.7.jar", "sodium", "0.5.7"),
		entry("lithium-0.12.1.jar", "lithium", "0.12.1"),
		entry("iris-1.7.3.jar", "iris", "1.7.3"), // brand new
	)

	plan := Plan(inventory, m)

	assert.Equal(t, []string{"sodium-0.5.6.jar"}, removals(plan))
	assert.ElementsMatch(t, []string{"sodium", "iris"}, downloads(plan))
	require.Len(t, plan.ToPreserve, 2)

	var user *types.ModFile
	for i := range plan.ToPreserve {
		if plan.ToPreserve[i].CanonicalName == "my-private-mod" {
			user = &plan.ToPreserve[i]
		}
	}
	require.NotNil(t, user)
	assert.True(t, user.IsUserMod)
}

func TestPlanIdempotent(t *testing.T) {
	inventory := []types.ModFile{
		mod("sodium-0.5.7.jar", "sodium", "0.5.7", time.Hour),
		mod("iris-1.7.3.jar", "iris", "1.7.3", time.Hour),
	}
	m := manifest(
		entry("sodium-0.5.7.jar", "sodium", "0.5.7"),
		entry("iris-1.7.3.jar", "iris", "1.7.3"),
	)

	plan := Plan(inventory, m)
	assert.True(t, plan.IsEmpty())
	assert.Len(t, plan.ToPreserve, 2)
}

func TestPlanDuplicateCleanup(t *testing.T) {
	inventory := []types.ModFile{
		mod("sodium-0.5.5.jar", "sodium", "0.5.5", 48*time.Hour),
		mod("sodium-0.5.7.jar", "sodium", "0.5.7", time.Hour),
		mod("sodium-0.5.6.jar", "sodium", "0.5.6", 24*time.Hour),
	}
	m := manifest(entry("sodium-0.5.7.jar", "sodium", "0.5.7"))

	plan := Plan(inventory, m)

	// Newest copy matches the manifest; stale duplicates go regardless.
	assert.False(t, plan.IsEmpty())
	assert.ElementsMatch(t,
		[]string{"sodium-0.5.5.jar", "sodium-0.5.6.jar"}, removals(plan))
	assert.Empty(t, downloads(plan))
	require.Len(t, plan.ToPreserve, 1)
	assert.Equal(t, "sodium-0.5.7.jar", plan.ToPreserve[0].RawFilename)
}

func TestPlanDuplicateTieBreakByFilename(t *testing.T) {
	ts := time.Now().Add(-time.Hour)
	a := types.ModFile{RawFilename: "mymod-a.jar", CanonicalName: "mymod", LastModified: ts}
	b := types.ModFile{RawFilename: "mymod-b.jar", CanonicalName: "mymod", LastModified: ts}

	plan := Plan([]types.ModFile{a, b}, manifest())

	assert.Equal(t, []string{"mymod-a.jar"}, removals(plan))
	require.Len(t, plan.ToPreserve, 1)
	assert.Equal(t, "mymod-b.jar", plan.ToPreserve[0].RawFilename)
}

func TestPlanAmbiguousFlagged(t *testing.T) {
	compound := types.ModFile{
		RawFilename:   "essential_fabric_1-21-1$essential-loader.jar",
		CanonicalName: "essential",
		Ambiguous:     true,
		LastModified:  time.Now(),
	}
	m := manifest(entry("essential-2.0.jar", "essential", "2.0"))

	plan := Plan([]types.ModFile{compound}, m)

	assert.Empty(t, removals(plan))
	require.Len(t, plan.Flagged, 1)
	assert.Equal(t, compound.RawFilename, plan.Flagged[0].RawFilename)
	require.Len(t, plan.ToPreserve, 1)

	// The manifest entry is still fetched: the compound file cannot be
	// trusted to satisfy it.
	assert.Equal(t, []string{"essential"}, downloads(plan))
}

func TestPlanDisabledCurrentVersionNotRedownloaded(t *testing.T) {
	disabled := types.ModFile{
		RawFilename:   "iris-1.7.3.jar.disabled",
		CanonicalName: "iris",
		Version:       "1.7.3",
		Disabled:      true,
		LastModified:  time.Now(),
	}
	m := manifest(entry("iris-1.7.3.jar", "iris", "1.7.3"))

	plan := Plan([]types.ModFile{disabled}, m)

	assert.True(t, plan.IsEmpty())
	require.Len(t, plan.ToPreserve, 1)
	assert.Equal(t, "iris-1.7.3.jar.disabled", plan.ToPreserve[0].RawFilename)
}

func TestPlanDisabledPreserved(t *testing.T) {
	disabled := types.ModFile{
		RawFilename:   "iris-1.7.0.jar.disabled",
		CanonicalName: "iris",
		Version:       "1.7.0",
		Disabled:      true,
		LastModified:  time.Now(),
	}
	m := manifest(entry("iris-1.7.3.jar", "iris", "1.7.3"))

	plan := Plan([]types.ModFile{disabled}, m)

	assert.Empty(t, removals(plan))
	require.Len(t, plan.ToPreserve, 1)
	assert.Equal(t, []string{"iris"}, downloads(plan))
}

func TestPlanEmptyInventory(t *testing.T) {
	m := manifest(
		entry("sodium-0.5.7.jar", "sodium", "0.5.7"),
		entry("iris-1.7.3.jar", "iris", "1.7.3"),
	)

	plan := Plan(nil, m)
	assert.Empty(t, plan.ToRemove)
	assert.Empty(t, plan.ToPreserve)
	assert.Len(t, plan.ToDownload, 2)
}

// Partition property over a randomized-ish mixed inventory: every file ends
// up in exactly one of remove/preserve.
func TestPlanPartitionProperty(t *testing.T) {
	inventory := []types.ModFile{
		mod("sodium-0.5.6.jar", "sodium", "0.5.6", time.Hour),
		mod("sodium-0.5.5.jar", "sodium", "0.5.5", 2*time.Hour),
		mod("lithium-0.12.1.jar", "lithium", "0.12.1", time.Hour),
		mod("custom-1.0.jar", "custom", "1.0", time.Hour),
		{RawFilename: "a$b.jar", CanonicalName: "a", Ambiguous: true, LastModified: time.Now()},
		{RawFilename: "old-3.0.jar.disabled", CanonicalName: "old", Version: "3.0", Disabled: true, LastModified: time.Now()},
	}
	m := manifest(
		entry("sodium-0.5.7.jar", "sodium", "0.5.7"),
		entry("lithium-0.12.1.jar", "lithium", "0.12.1"),
	)

	plan := Plan(inventory, m)

	seen := make(map[string]int)
	for _, f := range plan.ToRemove {
		seen[f.RawFilename]++
	}
	for _, f := range plan.ToPreserve {
		seen[f.RawFilename]++
	}
	require.Len(t, seen, len(inventory))
	for name, count := range seen {
		assert.Equal(t, 1, count, name)
	}

	for _, f := range plan.Flagged {
		assert.Contains(t, seen, f.RawFilename)
	}
}

// Applying a plan and re-planning must yield an empty plan.
func TestPlanConvergesAfterApply(t *testing.T) {
	m := manifest(
		entry("sodium-0.5.7.jar", "sodium", "0.5.7"),
		entry("iris-1.7.3.jar", "iris", "1.7.3"),
	)
	inventory := []types.ModFile{
		mod("sodium-0.5.6.jar", "sodium", "0.5.6", time.Hour),
		mod("custom-1.0.jar", "custom", "1.0", time.Hour),
	}

	first := Plan(inventory, m)

	// Simulate execution: drop removals, add downloads as fresh files.
	var after []types.ModFile
	removed := make(map[string]bool)
	for _, f := range first.ToRemove {
		removed[f.RawFilename] = true
	}
	for _, f := range inventory {
		if !removed[f.RawFilename] {
			after = append(after, f)
		}
	}
	for _, e := range first.ToDownload {
		after = append(after, mod(e.Filename(), e.CanonicalName, e.Version, 0))
	}

	second := Plan(after, m)
	assert.True(t, second.IsEmpty())
}
