// Package profiledb keeps launcher profile databases in step with a sync.
//
// AstralRinth and the Modrinth App record each profile's game and loader
// version in an embedded SQLite database; after a mod update the launcher
// would otherwise show, and launch, the old version. Database trouble is
// deliberately non-fatal for callers: the mods on disk are already correct
// by the time this runs.
package profiledb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/types"
)

// DatabaseFile is the profile store filename under the launcher root.
const DatabaseFile = "app.db"

// Sync updates the instance's row in the launcher profile database to match
// the manifest. Launcher kinds without a profile store are a no-op. The
// connection lives for one short transaction and is closed on every path.
func Sync(ctx context.Context, instance *types.Instance, m *types.ModpackManifest) error {
	if !instance.LauncherKind.HasProfileStore() {
		return nil
	}
	log := logging.GetLogger("profiledb")

	dbPath := filepath.Join(instance.LauncherRoot, DatabaseFile)
	if _, err := os.Stat(dbPath); err != nil {
		return errors.Wrapf(err, errors.ErrDatabase, "profile database %s missing", dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return errors.Wrapf(err, errors.ErrDatabase, "opening %s", dbPath)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDatabase, "starting transaction on %s", dbPath)
	}
	defer tx.Rollback()

	// Profiles are keyed by their directory name under profiles/. The
	// launcher stores timestamps as epoch milliseconds and decodes them as
	// integers, so anything else corrupts the row.
	profilePath := filepath.Base(instance.InstancePath)
	now := time.Now().UTC().UnixMilli()

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET modified = ?, game_version = ?, mod_loader = ? WHERE path = ?`,
		now, m.MinecraftVersion, m.ModLoader, profilePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDatabase, "updating profile %s", profilePath)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabase, "reading update result")
	}
	if rows == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO profiles
			   (path, name, game_version, mod_loader, install_stage, created, modified,
			    groups, override_extra_launch_args, override_custom_env_vars)
			 VALUES (?, ?, ?, ?, 'installed', ?, ?, '[]', '[]', '{}')`,
			profilePath, instance.Name, m.MinecraftVersion, m.ModLoader, now, now)
		if err != nil {
			return errors.Wrapf(err, errors.ErrDatabase, "inserting profile %s", profilePath)
		}
		log.Info().Str("profile", profilePath).Msg("profile row created")
	} else {
		log.Debug().Str("profile", profilePath).Msg("profile row updated")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, errors.ErrDatabase, "committing profile update for %s", profilePath)
	}
	return nil
}
