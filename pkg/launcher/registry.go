package launcher

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/perlytiara/modsync/pkg/config"
	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/types"
)

// Registry discovers installed launchers. Installations are recomputed on
// every Discover call and never cached: the user may install or remove a
// launcher between runs.
type Registry struct {
	extraRoots []string
	log        zerolog.Logger
}

// NewRegistry creates a registry probing the platform's well-known launcher
// paths plus any extra roots from the configuration.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		extraRoots: cfg.ExtraLauncherRoots,
		log:        logging.GetLogger("launcher.registry"),
	}
}

// Discover finds every recognized launcher installation, in default-target
// priority order. Discovery never fails as a whole: a root that cannot be
// classified is skipped and reported in the returned warnings.
func (r *Registry) Discover(ctx context.Context) ([]types.LauncherInstallation, []string) {
	var warnings []string
	found := make(map[types.LauncherKind][]string)

	for _, root := range r.candidateRoots() {
		if ctx.Err() != nil {
			return nil, warnings
		}
		if _, err := os.Stat(root); err != nil {
			continue
		}

		kind, err := DetectKind(root)
		if err != nil {
			if !errors.IsErrorCode(err, errors.ErrUnknownLauncher) {
				r.log.Warn().Err(err).Str("root", root).Msg("skipping undetectable launcher root")
				warnings = append(warnings, err.Error())
			}
			continue
		}
		if containsPath(found[kind], root) {
			continue
		}
		found[kind] = append(found[kind], root)
		r.log.Debug().Str("kind", string(kind)).Str("root", root).Msg("launcher detected")
	}

	var installations []types.LauncherInstallation
	for _, spec := range detectionTable {
		for _, root := range found[spec.Kind] {
			installations = append(installations, types.LauncherInstallation{
				Kind:     spec.Kind,
				RootPath: root,
			})
		}
	}
	r.log.Info().Int("count", len(installations)).Msg("launcher discovery finished")
	return installations, warnings
}

// DetectKind classifies a single launcher root directory. Signature checks
// run most-specific first; a directory matching no signature yields
// ErrUnknownLauncher. An unreadable marker file yields ErrDetection so the
// caller can skip the kind without aborting discovery.
func DetectKind(root string) (types.LauncherKind, error) {
	if _, err := os.Stat(root); err != nil {
		return "", errors.Wrapf(err, errors.ErrDetection, "launcher root %s unreadable", root)
	}

	// Modrinth App and AstralRinth share a layout; the directory name is the
	// only discriminator.
	if exists(root, "app-window-state.json") && isDir(root, "profiles") {
		if filepath.Base(root) == "ModrinthApp" {
			return types.KindModrinthApp, nil
		}
		return types.KindAstralRinth, nil
	}

	if exists(root, "prismlauncher.cfg") && isDir(root, "instances") {
		accounts := filepath.Join(root, "accounts.json")
		if data, err := os.ReadFile(accounts); err == nil {
			if strings.Contains(string(data), "Offline") {
				return types.KindPrismCracked, nil
			}
		} else if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrDetection, "reading %s", accounts)
		}
		return types.KindPrism, nil
	}

	if isDir(root, "instances") && exists(root, "launcher_profiles.json") {
		return types.KindXMCL, nil
	}

	if exists(root, "launcher_profiles.json") &&
		(isDir(root, "versions") || filepath.Base(root) == ".minecraft") {
		return types.KindOfficial, nil
	}

	if exists(root, "multimc.cfg") && isDir(root, "instances") {
		return types.KindMultiMC, nil
	}

	if isDir(root, "configs") && isDir(root, "instances") && isDir(root, "servers") {
		return types.KindATLauncher, nil
	}

	return "", errors.Newf(errors.ErrUnknownLauncher, "no launcher signature at %s", root)
}

// candidateRoots returns every directory worth probing on this platform,
// extras first so user-configured roots win ties.
func (r *Registry) candidateRoots() []string {
	roots := append([]string{}, r.extraRoots...)
	return append(roots, platformRoots(runtime.GOOS)...)
}

// platformRoots lists the well-known launcher locations per OS.
func platformRoots(goos string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	var roots []string
	switch goos {
	case "windows":
		roots = append(roots,
			filepath.Join(xdg.DataHome, ".minecraft"),
			filepath.Join(xdg.DataHome, "PrismLauncher"),
			filepath.Join(xdg.DataHome, "PrismLauncher-Cracked"),
			filepath.Join(xdg.DataHome, "AstralRinthApp"),
			filepath.Join(xdg.DataHome, "ModrinthApp"),
			filepath.Join(xdg.ConfigHome, "ATLauncher"),
		)
	case "darwin":
		if home != "" {
			appSupport := filepath.Join(home, "Library", "Application Support")
			roots = append(roots,
				filepath.Join(appSupport, "minecraft"),
				filepath.Join(appSupport, "PrismLauncher"),
				filepath.Join(appSupport, "AstralRinthApp"),
				filepath.Join(appSupport, "ModrinthApp"),
				filepath.Join(appSupport, "ATLauncher"),
			)
		}
	default: // linux and friends
		if home != "" {
			roots = append(roots, filepath.Join(home, ".minecraft"))
		}
		roots = append(roots,
			filepath.Join(xdg.DataHome, "PrismLauncher"),
			filepath.Join(xdg.DataHome, "AstralRinthApp"),
			filepath.Join(xdg.DataHome, "ModrinthApp"),
			filepath.Join(xdg.DataHome, "multimc"),
			filepath.Join(xdg.DataHome, "ATLauncher"),
		)
	}
	if home != "" {
		roots = append(roots, filepath.Join(home, ".xmcl"))
	}
	return roots
}

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}

func isDir(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}

func containsPath(paths []string, p string) bool {
	for _, v := range paths {
		if v == p {
			return true
		}
	}
	return false
}
