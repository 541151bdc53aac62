package catalog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/perlytiara/modsync/pkg/launcher"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/types"
)

// Catalog lists the instances of a launcher installation.
type Catalog struct {
	log zerolog.Logger
}

// New creates a catalog.
func New() *Catalog {
	return &Catalog{log: logging.GetLogger("catalog")}
}

// ListInstances enumerates every instance under the installation, with its
// mod inventory populated. Broken instances are skipped and reported in the
// returned warnings instead of failing the whole listing.
func (c *Catalog) ListInstances(ctx context.Context, inst types.LauncherInstallation) ([]types.Instance, []string) {
	var (
		instances []types.Instance
		warnings  []string
	)

	candidates, warns := c.enumerate(inst)
	warnings = append(warnings, warns...)

	for i := range candidates {
		if ctx.Err() != nil {
			return instances, warnings
		}
		if err := c.populate(&candidates[i]); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("%s: %v", candidates[i].InstancePath, err))
			continue
		}
		instances = append(instances, candidates[i])
	}

	c.log.Debug().
		Str("kind", string(inst.Kind)).
		Int("instances", len(instances)).
		Msg("installation enumerated")
	return instances, warnings
}

// enumerate builds the bare instance records for a launcher kind, without
// inventories.
func (c *Catalog) enumerate(inst types.LauncherInstallation) ([]types.Instance, []string) {
	switch inst.Kind {
	case types.KindPrism, types.KindPrismCracked, types.KindMultiMC:
		return c.listMMCStyle(inst)
	case types.KindXMCL:
		return c.listXMCL(inst)
	case types.KindAstralRinth, types.KindModrinthApp:
		return c.listModrinthStyle(inst)
	case types.KindOfficial:
		return c.listOfficial(inst)
	case types.KindATLauncher:
		return c.listATLauncher(inst)
	default:
		return nil, []string{fmt.Sprintf("no enumerator for launcher kind %q", inst.Kind)}
	}
}

// populate fills the inventory and automodpack metadata of an instance.
func (c *Catalog) populate(in *types.Instance) error {
	modsDir := ModsDir(in.InstancePath, in.LauncherKind)
	mods, err := ReadInventory(modsDir)
	if err != nil {
		return err
	}
	in.Mods = mods
	in.HasAutomodpack = hasAutomodpack(modsDir, mods)
	if in.HasAutomodpack {
		in.ServerProfile = readServerProfile(filepath.Dir(modsDir))
	}
	return nil
}

// listMMCStyle covers PrismLauncher (plain and cracked) and MultiMC, which
// share the instances/<name>/{instance.cfg,mmc-pack.json} layout.
func (c *Catalog) listMMCStyle(inst types.LauncherInstallation) ([]types.Instance, []string) {
	dirs, warnings := instanceDirs(filepath.Join(inst.RootPath, "instances"))

	var out []types.Instance
	for _, dir := range dirs {
		cfg := filepath.Join(dir, "instance.cfg")
		if _, err := os.Stat(cfg); err != nil {
			continue // not an instance (group folders, trash, etc.)
		}
		name := readCfgName(cfg)
		if name == "" {
			name = filepath.Base(dir)
		}

		mc, loader, loaderVersion := readMMCPack(filepath.Join(dir, "mmc-pack.json"))
		out = append(out, types.Instance{
			Name:             name,
			LauncherKind:     inst.Kind,
			LauncherRoot:     inst.RootPath,
			InstancePath:     dir,
			MinecraftVersion: mc,
			ModLoader:        loader,
			ModLoaderVersion: loaderVersion,
		})
	}
	return out, warnings
}

func (c *Catalog) listXMCL(inst types.LauncherInstallation) ([]types.Instance, []string) {
	dirs, warnings := instanceDirs(filepath.Join(inst.RootPath, "instances"))

	var out []types.Instance
	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, "instance.json"))
		if err != nil {
			continue
		}
		doc := gjson.ParseBytes(data)

		name := doc.Get("name").String()
		if name == "" {
			name = filepath.Base(dir)
		}
		runtime := doc.Get("runtime")
		loader, loaderVersion := xmclLoader(runtime)

		out = append(out, types.Instance{
			Name:             name,
			LauncherKind:     inst.Kind,
			LauncherRoot:     inst.RootPath,
			InstancePath:     dir,
			MinecraftVersion: runtime.Get("minecraft").String(),
			ModLoader:        loader,
			ModLoaderVersion: loaderVersion,
		})
	}
	return out, warnings
}

func (c *Catalog) listModrinthStyle(inst types.LauncherInstallation) ([]types.Instance, []string) {
	dirs, warnings := instanceDirs(filepath.Join(inst.RootPath, "profiles"))

	var out []types.Instance
	for _, dir := range dirs {
		in := types.Instance{
			Name:         filepath.Base(dir),
			LauncherKind: inst.Kind,
			LauncherRoot: inst.RootPath,
			InstancePath: dir,
		}
		if data, err := os.ReadFile(filepath.Join(dir, "profile.json")); err == nil {
			doc := gjson.ParseBytes(data)
			if v := doc.Get("name").String(); v != "" {
				in.Name = v
			}
			in.MinecraftVersion = doc.Get("game_version").String()
			in.ModLoader = doc.Get("loader").String()
			in.ModLoaderVersion = doc.Get("loader_version").String()
		}
		out = append(out, in)
	}
	return out, warnings
}

// listOfficial reads the profiles map of launcher_profiles.json. Profiles
// without a gameDir share the launcher root as their game directory; only
// one instance is emitted per distinct directory.
func (c *Catalog) listOfficial(inst types.LauncherInstallation) ([]types.Instance, []string) {
	data, err := os.ReadFile(filepath.Join(inst.RootPath, "launcher_profiles.json"))
	if err != nil {
		return nil, []string{fmt.Sprintf("%s: reading launcher_profiles.json: %v", inst.RootPath, err)}
	}

	var out []types.Instance
	seen := make(map[string]bool)
	gjson.ParseBytes(data).Get("profiles").ForEach(func(_, profile gjson.Result) bool {
		dir := profile.Get("gameDir").String()
		if dir == "" {
			dir = inst.RootPath
		}
		if seen[dir] {
			return true
		}
		seen[dir] = true

		name := profile.Get("name").String()
		if name == "" {
			name = filepath.Base(dir)
		}
		out = append(out, types.Instance{
			Name:             name,
			LauncherKind:     inst.Kind,
			LauncherRoot:     inst.RootPath,
			InstancePath:     dir,
			MinecraftVersion: profile.Get("lastVersionId").String(),
		})
		return true
	})
	return out, nil
}

func (c *Catalog) listATLauncher(inst types.LauncherInstallation) ([]types.Instance, []string) {
	dirs, warnings := instanceDirs(filepath.Join(inst.RootPath, "instances"))

	var out []types.Instance
	for _, dir := range dirs {
		in := types.Instance{
			Name:         filepath.Base(dir),
			LauncherKind: inst.Kind,
			LauncherRoot: inst.RootPath,
			InstancePath: dir,
		}
		if data, err := os.ReadFile(filepath.Join(dir, "instance.json")); err == nil {
			doc := gjson.ParseBytes(data)
			if v := doc.Get("launcher.name").String(); v != "" {
				in.Name = v
			}
			in.MinecraftVersion = doc.Get("id").String()
			if lv := doc.Get("launcher.loaderVersion"); lv.Exists() {
				in.ModLoader = strings.ToLower(lv.Get("type").String())
				in.ModLoaderVersion = lv.Get("version").String()
			}
		}
		out = append(out, in)
	}
	return out, warnings
}

// instanceDirs lists the subdirectories of an instance container. A missing
// or unreadable container is a warning, not an error.
func instanceDirs(container string) ([]string, []string) {
	entries, err := os.ReadDir(container)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []string{fmt.Sprintf("reading %s: %v", container, err)}
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(container, e.Name()))
	}
	return dirs, nil
}

// readCfgName pulls the name= value out of an MMC-style instance.cfg. The
// file is a flat key=value list, optionally under a [General] section.
func readCfgName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if v, ok := strings.CutPrefix(line, "name="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// mmcLoaderUIDs maps MMC component ids to loader names.
var mmcLoaderUIDs = map[string]string{
	"net.fabricmc.fabric-loader": "fabric",
	"net.minecraftforge":         "forge",
	"net.neoforged":              "neoforge",
	"org.quiltmc.quilt-loader":   "quilt",
}

func readMMCPack(path string) (mc, loader, loaderVersion string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", ""
	}
	gjson.ParseBytes(data).Get("components").ForEach(func(_, comp gjson.Result) bool {
		uid := comp.Get("uid").String()
		if uid == "net.minecraft" {
			mc = comp.Get("version").String()
		} else if name, ok := mmcLoaderUIDs[uid]; ok {
			loader = name
			loaderVersion = comp.Get("version").String()
		}
		return true
	})
	return mc, loader, loaderVersion
}

func xmclLoader(runtime gjson.Result) (string, string) {
	for key, name := range map[string]string{
		"fabricLoader": "fabric",
		"forge":        "forge",
		"neoForged":    "neoforge",
		"quiltLoader":  "quilt",
	} {
		if v := runtime.Get(key).String(); v != "" {
			return name, v
		}
	}
	return "", ""
}

// ModsDir resolves the mods directory of an instance by probing the
// kind-specific candidate subpaths. When none exists yet the first
// candidate is returned so callers can create it on first install.
func ModsDir(instancePath string, kind types.LauncherKind) string {
	spec := launcher.Spec(kind)
	for _, sub := range spec.ModsSubpaths {
		dir := filepath.Join(instancePath, filepath.FromSlash(sub))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return filepath.Join(instancePath, filepath.FromSlash(spec.ModsSubpaths[0]))
}
