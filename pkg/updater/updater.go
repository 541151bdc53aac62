// Package updater ties the engine together: discovery, cataloging, manifest
// fetching, planning and execution, in that order. It is the only package a
// frontend needs to drive a scan or an update.
package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/perlytiara/modsync/pkg/catalog"
	"github.com/perlytiara/modsync/pkg/config"
	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/executor"
	"github.com/perlytiara/modsync/pkg/launcher"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/manifest"
	"github.com/perlytiara/modsync/pkg/modid"
	"github.com/perlytiara/modsync/pkg/planner"
	"github.com/perlytiara/modsync/pkg/profiledb"
	"github.com/perlytiara/modsync/pkg/types"
)

// Updater orchestrates scans and updates.
type Updater struct {
	cfg      *config.Config
	registry *launcher.Registry
	catalog  *catalog.Catalog
	fetcher  *manifest.Fetcher
	executor *executor.Executor
	log      zerolog.Logger
}

// New wires an updater from the configuration.
func New(cfg *config.Config) *Updater {
	fetcher := manifest.NewFetcher(cfg)
	return &Updater{
		cfg:      cfg,
		registry: launcher.NewRegistry(cfg),
		catalog:  catalog.New(),
		fetcher:  fetcher,
		executor: executor.New(cfg, fetcher.Client()),
		log:      logging.GetLogger("updater"),
	}
}

// Scan discovers every launcher and lists their instances with full mod
// inventories. Scanning is read-only and never fails as a whole; everything
// that went wrong on the way is collected in the report's warnings.
func (u *Updater) Scan(ctx context.Context) (*types.ScanReport, error) {
	installations, warnings := u.registry.Discover(ctx)
	report := &types.ScanReport{Warnings: warnings}

	workers := u.cfg.ScanWorkers
	if workers < 1 {
		workers = 1
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)
	for _, inst := range installations {
		wg.Add(1)
		sem <- struct{}{}
		go func(inst types.LauncherInstallation) {
			defer wg.Done()
			defer func() { <-sem }()

			instances, warns := u.catalog.ListInstances(ctx, inst)
			mu.Lock()
			defer mu.Unlock()
			report.Instances = append(report.Instances, instances...)
			report.Warnings = append(report.Warnings, warns...)
		}(inst)
	}
	wg.Wait()

	// Concurrent listing scrambles order; restore discovery priority.
	sortByDiscoveryOrder(report.Instances, installations)

	u.log.Info().
		Int("launchers", len(installations)).
		Int("instances", len(report.Instances)).
		Msg("scan complete")
	return report, nil
}

// Update syncs one instance against the selected release. The manifest
// fetch runs in parallel with the local inventory read; both must succeed
// before planning. Profile database trouble degrades to a warning because
// the mods themselves are already in their final state.
func (u *Updater) Update(ctx context.Context, instancePath, packageType, selector string) (*types.SyncResult, error) {
	instance, err := u.resolveInstance(ctx, instancePath)
	if err != nil {
		return nil, err
	}

	type fetchResult struct {
		m   *types.ModpackManifest
		err error
	}
	fetchCh := make(chan fetchResult, 1)
	go func() {
		m, err := u.fetcher.Fetch(ctx, packageType, selector)
		fetchCh <- fetchResult{m: m, err: err}
	}()

	inventory, invErr := catalog.ReadInventory(
		catalog.ModsDir(instance.InstancePath, instance.LauncherKind))

	fetch := <-fetchCh
	if fetch.err != nil {
		return nil, fetch.err
	}
	m := fetch.m
	if m.OverridesRoot != "" {
		defer os.RemoveAll(m.OverridesRoot)
	}
	if invErr != nil {
		return nil, invErr
	}

	if instance.HasAutomodpack && instance.ServerProfile == nil {
		if info, err := u.fetcher.FetchPackInfo(ctx, packageType); err == nil {
			instance.ServerProfile = info.ServerProfile()
		} else {
			u.log.Warn().Err(err).Msg("pack info unavailable, keeping local server profile")
		}
	}

	plan := planner.Plan(inventory, m)
	result := u.executor.Execute(ctx, instance, plan, m)

	if err := profiledb.Sync(ctx, instance, m); err != nil {
		result.AddWarning(fmt.Sprintf("profile database: %v", err))
	}
	return result, nil
}

// UpdateAll syncs every discovered instance matching the manifest's loader.
// Instances run one at a time; a canceled context stops before the next
// instance starts, never mid-instance.
func (u *Updater) UpdateAll(ctx context.Context, packageType, selector string) ([]*types.SyncResult, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), errors.ErrInternal, "update-all canceled")
	}
	report, err := u.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var results []*types.SyncResult
	for i := range report.Instances {
		if ctx.Err() != nil {
			return results, errors.Wrap(ctx.Err(), errors.ErrInternal, "update-all canceled")
		}
		instance := &report.Instances[i]
		if !u.targets(instance, packageType) {
			continue
		}

		result, err := u.Update(ctx, instance.InstancePath, packageType, selector)
		if err != nil {
			results = append(results, &types.SyncResult{
				InstanceName: instance.Name,
				Success:      false,
				Message:      err.Error(),
			})
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// targets reports whether an instance should receive a package type during
// update-all. Instances without loader metadata are skipped rather than
// guessed at.
func (u *Updater) targets(instance *types.Instance, packageType string) bool {
	return instance.ModLoader != "" && instance.ModLoader == packageType
}

// resolveInstance finds the scanned instance at a path, so updates know the
// launcher kind and its mods layout. An unscanned path is treated as a
// custom game directory: synced, but with generic layout probing and no
// profile database step.
func (u *Updater) resolveInstance(ctx context.Context, instancePath string) (*types.Instance, error) {
	abs, err := filepath.Abs(instancePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "resolving path %s", instancePath)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "instance path %s", abs)
	}

	report, scanErr := u.Scan(ctx)
	if scanErr == nil {
		for i := range report.Instances {
			if report.Instances[i].InstancePath == abs {
				return &report.Instances[i], nil
			}
		}
	}

	u.log.Info().Str("path", abs).Msg("path not managed by a known launcher, treating as custom instance")
	instance := &types.Instance{
		Name:         filepath.Base(abs),
		LauncherKind: types.KindCustom,
		InstancePath: abs,
	}
	mods, err := catalog.ReadInventory(catalog.ModsDir(abs, types.KindCustom))
	if err == nil {
		instance.Mods = mods
		for _, mod := range mods {
			if hasAutomodpackName(mod) {
				instance.HasAutomodpack = true
				break
			}
		}
	}
	return instance, nil
}

func hasAutomodpackName(mod types.ModFile) bool {
	return strings.HasPrefix(modid.Normalize(mod.RawFilename).Name, "automodpack")
}

func sortByDiscoveryOrder(instances []types.Instance, installations []types.LauncherInstallation) {
	rank := make(map[string]int, len(installations))
	for i, inst := range installations {
		rank[inst.RootPath] = i
	}
	sort.SliceStable(instances, func(i, j int) bool {
		ri, rj := rank[instances[i].LauncherRoot], rank[instances[j].LauncherRoot]
		if ri != rj {
			return ri < rj
		}
		return instances[i].Name < instances[j].Name
	})
}
