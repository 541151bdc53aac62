package catalog

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/perlytiara/modsync/pkg/types"
)

// KnownHostsFile is the automodpack trust store, living next to an
// instance's game directory.
const KnownHostsFile = "automodpack-known-hosts.json"

const defaultServerPort = 25565

// hasAutomodpack reports whether the instance runs the automodpack mod,
// either by a jar in the inventory or by an existing known-hosts file.
func hasAutomodpack(modsDir string, mods []types.ModFile) bool {
	for _, m := range mods {
		if strings.HasPrefix(m.CanonicalName, "automodpack") {
			return true
		}
	}
	_, err := os.Stat(filepath.Join(filepath.Dir(modsDir), KnownHostsFile))
	return err == nil
}

// readServerProfile extracts the first trusted host from the known-hosts
// file. Returns nil when the file is missing or holds no hosts.
func readServerProfile(baseDir string) *types.ServerProfile {
	data, err := os.ReadFile(filepath.Join(baseDir, KnownHostsFile))
	if err != nil {
		return nil
	}

	var profile *types.ServerProfile
	gjson.ParseBytes(data).Get("hosts").ForEach(func(key, value gjson.Result) bool {
		ip, port := splitHostPort(key.String())
		profile = &types.ServerProfile{
			Fingerprint: value.String(),
			ServerIP:    ip,
			ServerPort:  port,
		}
		return false
	})
	return profile
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defaultServerPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultServerPort
	}
	return host, port
}
