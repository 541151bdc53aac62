// Package testutil builds throwaway launcher directory trees for tests.
// Helpers fail the test on error so call sites stay linear.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile writes content, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MkDir creates a directory tree.
func MkDir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// TouchJar creates a fake mod jar with the given modification time offset so
// tests can control duplicate tie-breaking.
func TouchJar(t *testing.T, modsDir, name string, age time.Duration) {
	t.Helper()
	WriteFile(t, filepath.Join(modsDir, name), "jar:"+name)
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(filepath.Join(modsDir, name), mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

// PrismRoot builds a minimal PrismLauncher root with one instance and
// returns (root, instanceDir).
func PrismRoot(t *testing.T, base, instanceName, mcVersion, loader, loaderVersion string) (string, string) {
	t.Helper()
	root := filepath.Join(base, "PrismLauncher")
	WriteFile(t, filepath.Join(root, "prismlauncher.cfg"), "[General]\nLanguage=en_US\n")

	instDir := filepath.Join(root, "instances", instanceName)
	WriteFile(t, filepath.Join(instDir, "instance.cfg"),
		fmt.Sprintf("[General]\nConfigVersion=1.2\nname=%s\nInstanceType=OneSix\n", instanceName))
	WriteFile(t, filepath.Join(instDir, "mmc-pack.json"), MMCPack(mcVersion, loader, loaderVersion))
	MkDir(t, filepath.Join(instDir, ".minecraft", "mods"))
	return root, instDir
}

// MMCPack renders an mmc-pack.json with a Minecraft component and an
// optional loader component.
func MMCPack(mcVersion, loader, loaderVersion string) string {
	components := fmt.Sprintf(`{
      "cachedName": "Minecraft",
      "important": true,
      "uid": "net.minecraft",
      "version": %q
    }`, mcVersion)
	switch loader {
	case "fabric":
		components += fmt.Sprintf(`,
    {
      "cachedName": "Fabric Loader",
      "uid": "net.fabricmc.fabric-loader",
      "version": %q
    }`, loaderVersion)
	case "neoforge":
		components += fmt.Sprintf(`,
    {
      "cachedName": "NeoForge",
      "uid": "net.neoforged",
      "version": %q
    }`, loaderVersion)
	}
	return fmt.Sprintf(`{"formatVersion": 1, "components": [%s]}`, components)
}

// ModrinthLikeRoot builds an AstralRinth/Modrinth-style root with one
// profile and returns (root, profileDir). dirName selects the launcher
// flavor ("AstralRinthApp" or "ModrinthApp").
func ModrinthLikeRoot(t *testing.T, base, dirName, profileName, mcVersion, loader string) (string, string) {
	t.Helper()
	root := filepath.Join(base, dirName)
	WriteFile(t, filepath.Join(root, "app-window-state.json"), `{"width":1280,"height":720}`)

	profileDir := filepath.Join(root, "profiles", profileName)
	WriteFile(t, filepath.Join(profileDir, "profile.json"), fmt.Sprintf(`{
  "name": %q,
  "game_version": %q,
  "loader": %q,
  "install_stage": "installed",
  "path": %q
}`, profileName, mcVersion, loader, profileName))
	MkDir(t, filepath.Join(profileDir, "mods"))
	return root, profileDir
}

// XMCLRoot builds an XMCL root with one instance and returns
// (root, instanceDir).
func XMCLRoot(t *testing.T, base, instanceName, mcVersion, fabricVersion string) (string, string) {
	t.Helper()
	root := filepath.Join(base, ".xmcl")
	WriteFile(t, filepath.Join(root, "launcher_profiles.json"), `{"profiles":{}}`)

	instDir := filepath.Join(root, "instances", instanceName)
	WriteFile(t, filepath.Join(instDir, "instance.json"), fmt.Sprintf(`{
  "name": %q,
  "runtime": {"minecraft": %q, "fabricLoader": %q}
}`, instanceName, mcVersion, fabricVersion))
	MkDir(t, filepath.Join(instDir, "mods"))
	return root, instDir
}

// OfficialRoot builds an official-launcher .minecraft root with one profile.
func OfficialRoot(t *testing.T, base, profileName, versionID string) string {
	t.Helper()
	root := filepath.Join(base, ".minecraft")
	MkDir(t, filepath.Join(root, "versions"))
	WriteFile(t, filepath.Join(root, "launcher_profiles.json"), fmt.Sprintf(`{
  "profiles": {
    "prof-1": {"name": %q, "type": "custom", "lastVersionId": %q}
  },
  "version": 3
}`, profileName, versionID))
	MkDir(t, filepath.Join(root, "mods"))
	return root
}

// KnownHosts writes an automodpack-known-hosts.json next to a mods dir.
func KnownHosts(t *testing.T, dir, ip, fingerprint string) {
	t.Helper()
	WriteFile(t, filepath.Join(dir, "automodpack-known-hosts.json"),
		fmt.Sprintf(`{"hosts": {%q: %q}}`, ip, fingerprint))
}
