// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/config"
	"robolab-cli/internal/container"
	"robolab-cli/internal/oci"
	"robolab-cli/internal/provision"
	"robolab-cli/internal/sif"
)

// doctorCmd reports the state of every external tool robolab shells out to
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the external tools robolab depends on",
	Long: `Check that the external tools robolab shells out to are installed
and answering.

Packaging needs the container engine, skopeo, and (for local builds)
apptainer or singularity. Provisioning needs dpkg, apt-get, bash, git,
and python3. Missing tools are reported but do not fail the command;
install what the workflows you use need.`,
	RunE: runDoctor,
}

// toolReport is one row of doctor output.
type toolReport struct {
	name   string
	role   string
	ok     bool
	detail string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	ctx := cmd.Context()

	reports := []toolReport{
		engineReport(ctx, cfg),
		exporterReport(ctx),
		builderReport(ctx, cfg),
	}
	tc := provision.NewToolchain()
	for _, t := range []struct {
		tool *clitool.Tool
		role string
	}{
		{tc.Dpkg, "package state checks"},
		{tc.AptGet, "system package installs"},
		{tc.Bash, "script steps"},
		{tc.Git, "repository checkouts"},
		{tc.Python, "virtualenv steps"},
	} {
		reports = append(reports, provisionToolReport(t.tool, t.role))
	}

	fmt.Println(TitleStyle.Render("robolab doctor"))
	fmt.Println()
	for _, r := range reports {
		marker := SuccessStyle.Render("✓")
		if !r.ok {
			marker = ErrorStyle.Render("✗")
		}
		fmt.Printf("  %s %-12s %-25s %s\n", marker, r.name, VerboseStyle.Render(r.role), r.detail)
	}
	fmt.Println()

	missing := 0
	for _, r := range reports {
		if !r.ok {
			missing++
		}
	}
	if missing == 0 {
		fmt.Printf("%s All tools present\n", SuccessStyle.Render("✓"))
	} else {
		fmt.Printf("%s %d tool(s) missing; only the workflows that use them are affected\n",
			WarningStyle.Render("•"), missing)
	}
	return nil
}

func engineReport(ctx context.Context, cfg *config.Config) toolReport {
	engine := container.NewEngine(string(cfg.Container.Binary))
	r := toolReport{name: engine.Name(), role: "container engine"}
	if !engine.Resolved() {
		r.detail = "not found on PATH"
		return r
	}
	if !engine.Available() {
		r.detail = fmt.Sprintf("%s found but the daemon is not responding", engine.BinaryPath())
		return r
	}
	r.ok = true
	if v, err := engine.Version(ctx); err == nil {
		r.detail = "server " + v
	} else {
		r.detail = engine.BinaryPath()
	}
	return r
}

func exporterReport(ctx context.Context) toolReport {
	exporter := oci.NewExporter()
	r := toolReport{name: exporter.Name(), role: "image export"}
	if !exporter.Available() {
		r.detail = "not found on PATH"
		return r
	}
	r.ok = true
	if v, err := exporter.Version(ctx); err == nil {
		r.detail = v
	} else {
		r.detail = exporter.BinaryPath()
	}
	return r
}

func builderReport(ctx context.Context, cfg *config.Config) toolReport {
	builder, err := sif.Detect(string(cfg.Sif.Prefer))
	if err != nil {
		return toolReport{
			name:   "apptainer",
			role:   "local SIF builds",
			detail: "not found on PATH (singularity also accepted)",
		}
	}
	r := toolReport{name: builder.Name(), role: "local SIF builds", ok: true}
	if v, err := builder.Version(ctx); err == nil {
		r.detail = v
	} else {
		r.detail = builder.BinaryPath()
	}
	return r
}

func provisionToolReport(t *clitool.Tool, role string) toolReport {
	r := toolReport{name: t.Name(), role: role}
	if !t.Resolved() {
		r.detail = "not found on PATH"
		return r
	}
	r.ok = true
	r.detail = t.BinaryPath()
	return r
}
