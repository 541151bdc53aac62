package types

// UpdatePlan is the planner's verdict over one instance inventory and one
// manifest. Invariants:
//
//   - ToRemove and ToPreserve are disjoint, and together contain every
//     inventory file exactly once.
//   - ToDownload never contains an entry whose (name, version) is already
//     satisfied by a preserved file.
//   - A file whose canonical name is absent from the manifest is never in
//     ToRemove.
type UpdatePlan struct {
	ToRemove   []ModFile       `json:"toRemove"`
	ToDownload []ManifestEntry `json:"toDownload"`
	ToPreserve []ModFile       `json:"toPreserve"`

	// Flagged lists ambiguous compound filenames preserved for manual
	// resolution. Every flagged file also appears in ToPreserve.
	Flagged []ModFile `json:"flagged,omitempty"`
}

// IsEmpty reports whether applying the plan would mutate nothing.
func (p UpdatePlan) IsEmpty() bool {
	return len(p.ToRemove) == 0 && len(p.ToDownload) == 0
}

// SyncResult is the update operation output for one instance, shaped for the
// CLI's JSON rendering. Partial failure is normal: FailedMods and Warnings
// carry the complete account of everything that did not go to plan.
type SyncResult struct {
	InstanceName   string   `json:"instanceName"`
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	UpdatedMods    []string `json:"updatedMods"`
	NewMods        []string `json:"newMods"`
	RemovedMods    []string `json:"removedMods"`
	PreservedCount int      `json:"preservedCount"`
	FailedMods     []string `json:"failedMods"`
	Warnings       []string `json:"warnings,omitempty"`
}

// AddWarning appends a non-fatal condition to the result.
func (r *SyncResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
