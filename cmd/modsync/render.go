package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"

	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/types"
)

func jsonOutput() bool { return outputFormat == "json" }

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderError reports a failure in the selected format and returns the
// error so the process exits non-zero.
func renderError(err error) error {
	if jsonOutput() {
		_ = printJSON(map[string]interface{}{
			"success": false,
			"error":   errors.GetErrorCode(err),
			"message": err.Error(),
		})
		return err
	}
	pterm.Error.Println(err.Error())
	return err
}

func renderScan(report *types.ScanReport) error {
	if jsonOutput() {
		return printJSON(report)
	}

	if len(report.Instances) == 0 {
		pterm.Info.Println("No Minecraft instances found")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Launcher", "Instance", "Minecraft", "Loader", "Mods", "Automodpack"})
		for _, in := range report.Instances {
			auto := ""
			if in.HasAutomodpack {
				auto = "yes"
			}
			t.AppendRow(table.Row{
				in.LauncherKind.DisplayName(), in.Name,
				in.MinecraftVersion, loaderColumn(in), in.ModCount(), auto,
			})
		}
		t.Render()
	}

	renderWarnings(report.Warnings)
	return nil
}

func loaderColumn(in types.Instance) string {
	if in.ModLoader == "" {
		return ""
	}
	if in.ModLoaderVersion == "" {
		return in.ModLoader
	}
	return fmt.Sprintf("%s %s", in.ModLoader, in.ModLoaderVersion)
}

func renderResults(results ...*types.SyncResult) error {
	if jsonOutput() {
		if len(results) == 1 {
			return printJSON(results[0])
		}
		return printJSON(results)
	}

	var failed bool
	for _, r := range results {
		renderResult(r)
		if !r.Success {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("one or more instances failed to sync")
	}
	return nil
}

func renderResult(r *types.SyncResult) {
	if r.Success {
		pterm.Success.Printf("%s: %s\n", r.InstanceName, r.Message)
	} else {
		pterm.Error.Printf("%s: %s\n", r.InstanceName, r.Message)
	}

	for _, m := range r.UpdatedMods {
		fmt.Printf("  updated   %s\n", m)
	}
	for _, m := range r.NewMods {
		fmt.Printf("  added     %s\n", m)
	}
	for _, m := range r.RemovedMods {
		fmt.Printf("  removed   %s\n", m)
	}
	for _, m := range r.FailedMods {
		fmt.Printf("  failed    %s\n", m)
	}
	if r.PreservedCount > 0 {
		fmt.Printf("  preserved %d mod(s)\n", r.PreservedCount)
	}
	renderWarnings(r.Warnings)
}

func renderWarnings(warnings []string) {
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}
}
