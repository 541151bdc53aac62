package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perlytiara/modsync/pkg/testutil"
	"github.com/perlytiara/modsync/pkg/types"
)

func TestListInstancesPrism(t *testing.T) {
	base := t.TempDir()
	root, instDir := testutil.PrismRoot(t, base, "NAHA-Fabric", "1.21.1", "fabric", "0.16.9")
	modsDir := filepath.Join(instDir, ".minecraft", "mods")
	testutil.TouchJar(t, modsDir, "sodium-0.5.7.jar", time.Hour)
	testutil.TouchJar(t, modsDir, "lithium-0.12.1.jar", 2*time.Hour)

	c := New()
	instances, warnings := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindPrism, RootPath: root})

	assert.Empty(t, warnings)
	require.Len(t, instances, 1)

	in := instances[0]
	assert.Equal(t, "NAHA-Fabric", in.Name)
	assert.Equal(t, types.KindPrism, in.LauncherKind)
	assert.Equal(t, instDir, in.InstancePath)
	assert.Equal(t, "1.21.1", in.MinecraftVersion)
	assert.Equal(t, "fabric", in.ModLoader)
	assert.Equal(t, "0.16.9", in.ModLoaderVersion)
	assert.Equal(t, 2, in.ModCount())
}

func TestListInstancesModrinthStyle(t *testing.T) {
	base := t.TempDir()
	root, profileDir := testutil.ModrinthLikeRoot(t, base, "AstralRinthApp", "naha-fabric", "1.21.1", "fabric")
	testutil.TouchJar(t, filepath.Join(profileDir, "mods"), "sodium-0.5.7.jar", time.Hour)

	c := New()
	instances, warnings := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindAstralRinth, RootPath: root})

	assert.Empty(t, warnings)
	require.Len(t, instances, 1)
	assert.Equal(t, "naha-fabric", instances[0].Name)
	assert.Equal(t, "1.21.1", instances[0].MinecraftVersion)
	assert.Equal(t, "fabric", instances[0].ModLoader)
}

func TestListInstancesXMCL(t *testing.T) {
	base := t.TempDir()
	root, _ := testutil.XMCLRoot(t, base, "NAHA", "1.21.1", "0.16.9")

	c := New()
	instances, warnings := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindXMCL, RootPath: root})

	assert.Empty(t, warnings)
	require.Len(t, instances, 1)
	assert.Equal(t, "NAHA", instances[0].Name)
	assert.Equal(t, "fabric", instances[0].ModLoader)
	assert.Equal(t, "0.16.9", instances[0].ModLoaderVersion)
}

func TestListInstancesOfficial(t *testing.T) {
	base := t.TempDir()
	root := testutil.OfficialRoot(t, base, "NAHA", "1.21.1")

	c := New()
	instances, warnings := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindOfficial, RootPath: root})

	assert.Empty(t, warnings)
	require.Len(t, instances, 1)
	assert.Equal(t, "NAHA", instances[0].Name)
	assert.Equal(t, root, instances[0].InstancePath)
	assert.Equal(t, "1.21.1", instances[0].MinecraftVersion)
}

func TestListInstancesSkipsBrokenSiblings(t *testing.T) {
	base := t.TempDir()
	root, _ := testutil.PrismRoot(t, base, "good", "1.21.1", "fabric", "0.16.9")
	// A directory without instance.cfg is not an instance.
	testutil.MkDir(t, filepath.Join(root, "instances", ".LWJGL"))
	testutil.MkDir(t, filepath.Join(root, "instances", "empty-folder"))

	c := New()
	instances, _ := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindPrism, RootPath: root})

	require.Len(t, instances, 1)
	assert.Equal(t, "good", instances[0].Name)
}

func TestReadInventory(t *testing.T) {
	modsDir := t.TempDir()
	testutil.TouchJar(t, modsDir, "sodium-0.5.7.jar", 2*time.Hour)
	testutil.TouchJar(t, modsDir, "lithium-0.12.1.jar", time.Hour)
	testutil.TouchJar(t, modsDir, "iris-1.7.3.jar.disabled", 3*time.Hour)
	testutil.WriteFile(t, filepath.Join(modsDir, "readme.txt"), "not a mod")

	mods, err := ReadInventory(modsDir)
	require.NoError(t, err)
	require.Len(t, mods, 3)

	// Newest first.
	assert.Equal(t, "lithium-0.12.1.jar", mods[0].RawFilename)
	assert.Equal(t, "lithium", mods[0].CanonicalName)
	assert.Equal(t, "0.12.1", mods[0].Version)
	assert.False(t, mods[0].Disabled)

	assert.Equal(t, "sodium-0.5.7.jar", mods[1].RawFilename)

	assert.Equal(t, "iris-1.7.3.jar.disabled", mods[2].RawFilename)
	assert.Equal(t, "iris", mods[2].CanonicalName)
	assert.True(t, mods[2].Disabled)
}

func TestReadInventoryMissingDir(t *testing.T) {
	mods, err := ReadInventory(filepath.Join(t.TempDir(), "nope", "mods"))
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestAutomodpackDetection(t *testing.T) {
	base := t.TempDir()
	root, instDir := testutil.PrismRoot(t, base, "NAHA", "1.21.1", "fabric", "0.16.9")
	mcDir := filepath.Join(instDir, ".minecraft")
	testutil.TouchJar(t, filepath.Join(mcDir, "mods"), "automodpack-mod-fabric-4.0.0.jar", time.Hour)
	testutil.KnownHosts(t, mcDir, "play.example.org:25565", "ab:cd:ef")

	c := New()
	instances, _ := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindPrism, RootPath: root})

	require.Len(t, instances, 1)
	in := instances[0]
	assert.True(t, in.HasAutomodpack)
	require.NotNil(t, in.ServerProfile)
	assert.Equal(t, "play.example.org", in.ServerProfile.ServerIP)
	assert.Equal(t, 25565, in.ServerProfile.ServerPort)
	assert.Equal(t, "ab:cd:ef", in.ServerProfile.Fingerprint)
}

func TestAutomodpackWithoutKnownHosts(t *testing.T) {
	base := t.TempDir()
	root, instDir := testutil.PrismRoot(t, base, "NAHA", "1.21.1", "fabric", "0.16.9")
	testutil.TouchJar(t, filepath.Join(instDir, ".minecraft", "mods"),
		"automodpack-mod-fabric-4.0.0.jar", time.Hour)

	c := New()
	instances, _ := c.ListInstances(context.Background(),
		types.LauncherInstallation{Kind: types.KindPrism, RootPath: root})

	require.Len(t, instances, 1)
	assert.True(t, instances[0].HasAutomodpack)
	assert.Nil(t, instances[0].ServerProfile)
}

func TestSplitHostPortDefaults(t *testing.T) {
	ip, port := splitHostPort("play.example.org")
	assert.Equal(t, "play.example.org", ip)
	assert.Equal(t, defaultServerPort, port)

	ip, port = splitHostPort("127.0.0.1:25570")
	assert.Equal(t, "127.0.0.1", ip)
	assert.Equal(t, 25570, port)
}

func TestModsDirProbing(t *testing.T) {
	instDir := t.TempDir()
	testutil.MkDir(t, filepath.Join(instDir, "minecraft", "mods"))

	// Prism probes .minecraft/mods first, then minecraft/mods.
	assert.Equal(t, filepath.Join(instDir, "minecraft", "mods"),
		ModsDir(instDir, types.KindPrism))

	// When nothing exists the preferred location is returned.
	empty := t.TempDir()
	assert.Equal(t, filepath.Join(empty, ".minecraft", "mods"),
		ModsDir(empty, types.KindPrism))
}
