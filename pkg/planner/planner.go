// Package planner decides what a sync should change. Planning is a pure
// function over an inventory and a manifest; all filesystem and network work
// stays in the executor, keeping every planning rule unit-testable.
package planner

import (
	"sort"

	"github.com/perlytiara/modsync/pkg/types"
)

// Plan partitions an instance inventory against a manifest.
//
// Every inventory file lands in exactly one of ToRemove and ToPreserve.
// Files unknown to the manifest are user mods and always preserved.
// Ambiguous compound filenames are preserved and flagged, never matched
// against the manifest. When several files share a canonical name, only the
// newest is compared against the manifest; older duplicates are removed.
func Plan(inventory []types.ModFile, m *types.ModpackManifest) types.UpdatePlan {
	var plan types.UpdatePlan

	entries := make(map[string]types.ManifestEntry, len(m.Entries))
	for _, e := range m.Entries {
		entries[e.CanonicalName] = e
	}

	groups := groupByName(inventory)
	satisfied := make(map[string]bool)

	for _, group := range groups {
		primary, duplicates := splitNewest(group)
		plan.ToRemove = append(plan.ToRemove, duplicates...)

		switch {
		case primary.Ambiguous:
			plan.ToPreserve = append(plan.ToPreserve, primary)
			plan.Flagged = append(plan.Flagged, primary)

		case primary.Disabled:
			// A disabled copy of the right version satisfies the entry;
			// downloading it again would re-enable what the user turned off.
			if entry, managed := entries[primary.CanonicalName]; managed && primary.Version == entry.Version {
				satisfied[primary.CanonicalName] = true
			}
			plan.ToPreserve = append(plan.ToPreserve, primary)

		default:
			entry, managed := entries[primary.CanonicalName]
			if !managed {
				primary.IsUserMod = true
				plan.ToPreserve = append(plan.ToPreserve, primary)
				break
			}
			if primary.Version == entry.Version {
				satisfied[entry.CanonicalName] = true
				plan.ToPreserve = append(plan.ToPreserve, primary)
				break
			}
			satisfied[entry.CanonicalName] = true
			plan.ToRemove = append(plan.ToRemove, primary)
			plan.ToDownload = append(plan.ToDownload, entry)
		}
	}

	for _, e := range m.Entries {
		if !satisfied[e.CanonicalName] {
			plan.ToDownload = append(plan.ToDownload, e)
		}
	}
	return plan
}

// groupByName buckets the inventory by canonical name, in first-seen order.
// Ambiguous files never share a bucket: their canonical identity is not
// trustworthy enough to merge on.
func groupByName(inventory []types.ModFile) [][]types.ModFile {
	index := make(map[string]int)
	var groups [][]types.ModFile
	for _, mod := range inventory {
		if mod.Ambiguous {
			groups = append(groups, []types.ModFile{mod})
			continue
		}
		i, ok := index[mod.CanonicalName]
		if !ok {
			index[mod.CanonicalName] = len(groups)
			groups = append(groups, []types.ModFile{mod})
			continue
		}
		groups[i] = append(groups[i], mod)
	}
	return groups
}

// splitNewest picks the authoritative file of a duplicate group. Newest
// modification time wins; equal times fall back to the lexically greater
// filename so the choice is deterministic.
func splitNewest(group []types.ModFile) (types.ModFile, []types.ModFile) {
	if len(group) == 1 {
		return group[0], nil
	}
	sorted := append([]types.ModFile{}, group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].LastModified.Equal(sorted[j].LastModified) {
			return sorted[i].LastModified.After(sorted[j].LastModified)
		}
		return sorted[i].RawFilename > sorted[j].RawFilename
	})
	return sorted[0], sorted[1:]
}
