package executor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/perlytiara/modsync/pkg/catalog"
	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/types"
)

// refreshAutomodpack rewrites the automodpack trust store so the instance
// reconnects to its server without a re-trust prompt. Without a server
// profile there is nothing to refresh.
func refreshAutomodpack(baseDir string, profile *types.ServerProfile) error {
	if profile == nil || profile.ServerIP == "" {
		return nil
	}

	addr := profile.ServerIP
	if profile.ServerPort != 0 {
		addr = fmt.Sprintf("%s:%d", profile.ServerIP, profile.ServerPort)
	}
	doc := map[string]map[string]string{
		"hosts": {addr: profile.Fingerprint},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "encoding known hosts")
	}

	path := filepath.Join(baseDir, catalog.KnownHostsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "writing %s", path)
	}
	return nil
}
