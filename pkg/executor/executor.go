// Package executor applies an update plan to an instance. It owns every
// filesystem and download side effect of a sync.
//
// Execution is staged: replacements are downloaded and hash-verified into a
// staging directory before anything is removed, so an interrupted or partly
// failed run never leaves an instance missing a mod it previously had. Work
// for one instance is serialized; independent instances may be executed
// concurrently by the caller.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/perlytiara/modsync/pkg/catalog"
	"github.com/perlytiara/modsync/pkg/config"
	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/types"
)

// Executor applies update plans.
type Executor struct {
	client  *resty.Client
	workers int
	log     zerolog.Logger
}

// New creates an executor. The HTTP client is shared with the manifest
// fetcher so downloads inherit the configured timeout and retry policy.
func New(cfg *config.Config, client *resty.Client) *Executor {
	workers := cfg.DownloadWorkers
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		client:  client,
		workers: workers,
		log:     logging.GetLogger("executor"),
	}
}

// Execute applies a plan to an instance. The returned result is never nil:
// per-file download failures land in FailedMods and leave the rest of the
// plan running, while a filesystem failure aborts the remaining steps for
// this instance with everything already applied left in place.
func (e *Executor) Execute(ctx context.Context, instance *types.Instance, plan types.UpdatePlan, m *types.ModpackManifest) *types.SyncResult {
	result := &types.SyncResult{
		InstanceName:   instance.Name,
		Success:        true,
		PreservedCount: len(plan.ToPreserve),
	}
	for _, f := range plan.Flagged {
		result.AddWarning(fmt.Sprintf(
			"%s: compound filename, left untouched; resolve manually", f.RawFilename))
	}

	modsDir := catalog.ModsDir(instance.InstancePath, instance.LauncherKind)
	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return e.abort(result, errors.Wrapf(err, errors.ErrFileSystem,
			"creating mods directory %s", modsDir))
	}

	if !plan.IsEmpty() {
		if err := e.applyPlan(ctx, instance, plan, modsDir, result); err != nil {
			return e.abort(result, err)
		}
	}

	if m.OverridesRoot != "" {
		if err := copyTree(m.OverridesRoot, filepath.Dir(modsDir)); err != nil {
			return e.abort(result, err)
		}
	}

	if instance.HasAutomodpack {
		if err := refreshAutomodpack(filepath.Dir(modsDir), instance.ServerProfile); err != nil {
			// Metadata refresh is best-effort: the mods themselves are in
			// the desired state already.
			result.AddWarning(err.Error())
		}
	}

	result.Message = summarize(plan, result)
	return result
}

func (e *Executor) applyPlan(ctx context.Context, instance *types.Instance, plan types.UpdatePlan, modsDir string, result *types.SyncResult) error {
	staging, err := os.MkdirTemp(instance.InstancePath, ".modsync-staging-")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileSystem, "creating staging directory")
	}
	defer os.RemoveAll(staging)

	staged, failed := e.downloadAll(ctx, staging, plan.ToDownload)
	for _, f := range failed {
		result.FailedMods = append(result.FailedMods, f.entry.Filename())
		result.AddWarning(fmt.Sprintf("%s: %v", f.entry.Filename(), f.err))
		result.Success = false
	}

	removed, err := e.removeFiles(modsDir, plan.ToRemove, failed)
	if err != nil {
		return err
	}
	for _, f := range removed {
		result.RemovedMods = append(result.RemovedMods, f.RawFilename)
	}

	return e.installStaged(modsDir, staged, removed, result)
}

// abort records a fatal instance-level failure. There is no rollback: the
// instance stays valid because removals only ever follow successful staging.
func (e *Executor) abort(result *types.SyncResult, err error) *types.SyncResult {
	e.log.Error().Err(err).Str("instance", result.InstanceName).Msg("sync aborted")
	result.Success = false
	result.Message = err.Error()
	return result
}

// removeFiles deletes planned removals. The newest copy of a mod is kept
// when its manifest replacement failed to download, a stale version beats
// no version at all. Older duplicates of the same mod go regardless.
func (e *Executor) removeFiles(modsDir string, toRemove []types.ModFile, failed []failedDownload) ([]types.ModFile, error) {
	failedNames := make(map[string]bool, len(failed))
	for _, f := range failed {
		failedNames[f.entry.CanonicalName] = true
	}

	// For each failed replacement, spare the newest copy of that mod.
	spare := make(map[string]types.ModFile)
	for _, f := range toRemove {
		if !failedNames[f.CanonicalName] {
			continue
		}
		cur, ok := spare[f.CanonicalName]
		if !ok || f.LastModified.After(cur.LastModified) ||
			(f.LastModified.Equal(cur.LastModified) && f.RawFilename > cur.RawFilename) {
			spare[f.CanonicalName] = f
		}
	}

	var removed []types.ModFile
	for _, f := range toRemove {
		if kept, ok := spare[f.CanonicalName]; ok && kept.RawFilename == f.RawFilename {
			e.log.Warn().Str("file", f.RawFilename).Msg("keeping outdated mod, replacement download failed")
			continue
		}

		path := filepath.Join(modsDir, f.RawFilename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, errors.ErrFileSystem, "removing %s", path)
		}
		e.log.Debug().Str("file", f.RawFilename).Msg("removed")
		removed = append(removed, f)
	}
	return removed, nil
}

// installStaged moves verified downloads into the mods directory. A staged
// file whose canonical name was just removed counts as an update; anything
// else is a new mod.
func (e *Executor) installStaged(modsDir string, staged []stagedDownload, removed []types.ModFile, result *types.SyncResult) error {
	oldNames := make(map[string]string, len(removed))
	for _, f := range removed {
		oldNames[f.CanonicalName] = f.RawFilename
	}

	for _, s := range staged {
		dest := filepath.Join(modsDir, s.entry.Filename())
		if err := os.Rename(s.path, dest); err != nil {
			return errors.Wrapf(err, errors.ErrFileSystem, "installing %s", s.entry.Filename())
		}

		if old, ok := oldNames[s.entry.CanonicalName]; ok {
			result.UpdatedMods = append(result.UpdatedMods,
				fmt.Sprintf("%s -> %s", old, s.entry.Filename()))
		} else {
			result.NewMods = append(result.NewMods, s.entry.Filename())
		}
		e.log.Info().Str("file", s.entry.Filename()).Msg("installed")
	}
	return nil
}

func summarize(plan types.UpdatePlan, result *types.SyncResult) string {
	if plan.IsEmpty() {
		return "already up to date"
	}
	if !result.Success {
		return fmt.Sprintf("completed with %d failed downloads", len(result.FailedMods))
	}
	return fmt.Sprintf("updated %d, added %d, removed %d, preserved %d",
		len(result.UpdatedMods), len(result.NewMods),
		len(result.RemovedMods), result.PreservedCount)
}
