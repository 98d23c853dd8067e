// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"robolab-cli/internal/provision"
	"robolab-cli/pkg/labfile"
)

var (
	// provisionFile points at an explicit labfile instead of discovering one
	provisionFile string
	// provisionList prints the step table without applying anything
	provisionList bool
	// provisionDryRun reports what would be applied without applying
	provisionDryRun bool
	// provisionOnly restricts the run to the named steps
	provisionOnly []string

	// provisionCmd materializes the workspace described by the labfile
	provisionCmd = &cobra.Command{
		Use:   "provision",
		Short: "Set up the workspace described by the labfile",
		Long: `Apply the provisioning steps declared in the labfile, in order.

Each step knows how to detect whether it has already been applied, so
re-running provision after a partial failure picks up where it stopped.
Steps are applied sequentially and the run stops at the first failure.

Examples:
  robolab provision
  robolab provision --list
  robolab provision --only ros-deps --only project-repos
  robolab provision -f ./labfile.cue --dry-run`,
		RunE: runProvision,
	}
)

func init() {
	provisionCmd.Flags().StringVarP(&provisionFile, "file", "f", "", "labfile to provision from (default: discover labfile.cue upward)")
	provisionCmd.Flags().BoolVar(&provisionList, "list", false, "list the steps and their current state without applying")
	provisionCmd.Flags().BoolVar(&provisionDryRun, "dry-run", false, "report what would be applied without applying")
	provisionCmd.Flags().StringSliceVar(&provisionOnly, "only", nil, "run only the named steps (repeatable)")
}

func runProvision(cmd *cobra.Command, args []string) error {
	path, err := labfile.Discover(provisionFile, ".")
	if err != nil {
		return fail(cmd, err)
	}
	lf, err := labfile.Parse(path)
	if err != nil {
		return fail(cmd, err)
	}

	steps, err := provision.Plan(lf, provision.NewToolchain())
	if err != nil {
		return fail(cmd, err)
	}

	var ropts []provision.RunnerOption
	if provisionList || provisionDryRun {
		ropts = append(ropts, provision.WithDryRun())
	}
	if len(provisionOnly) > 0 {
		ropts = append(ropts, provision.WithOnly(provisionOnly))
	}

	summary, err := provision.NewRunner(steps, ropts...).Run(cmd.Context())
	if provisionList && summary != nil {
		printStepTable(lf, summary)
	}
	if err != nil {
		return fail(cmd, err)
	}
	if !provisionList {
		printProvisionSummary(summary, provisionDryRun)
	}
	return nil
}

// printStepTable renders one row per step with its current state. Used by
// --list, which checks but never applies.
func printStepTable(lf *labfile.Labfile, summary *provision.Summary) {
	title := lf.Name
	if title == "" {
		title = "Provisioning steps"
	}
	fmt.Println(TitleStyle.Render(title))
	fmt.Println(VerboseStyle.Render(lf.FilePath))
	fmt.Println()
	for _, st := range summary.Statuses {
		fmt.Printf("  %s %-20s %-7s %s\n",
			outcomeMarker(st.Outcome),
			st.Name,
			st.Kind,
			SubtitleStyle.Render(st.Detail),
		)
	}
	fmt.Println()
	_, satisfied, pending, _ := summary.Counts()
	fmt.Printf("%d satisfied, %d pending\n", satisfied, pending)
}

func printProvisionSummary(summary *provision.Summary, dryRun bool) {
	applied, satisfied, pending, filtered := summary.Counts()
	if dryRun {
		fmt.Printf("%s Dry run: %d to apply, %d already satisfied\n",
			WarningStyle.Render("•"), pending, satisfied)
		return
	}
	fmt.Printf("%s Provisioning complete: %d applied, %d already satisfied",
		SuccessStyle.Render("✓"), applied, satisfied)
	if filtered > 0 {
		fmt.Printf(", %d filtered", filtered)
	}
	fmt.Println()
}

func outcomeMarker(o provision.Outcome) string {
	switch o {
	case provision.OutcomeSatisfied, provision.OutcomeApplied:
		return SuccessStyle.Render("✓")
	case provision.OutcomePending:
		return WarningStyle.Render("•")
	case provision.OutcomeFailed:
		return ErrorStyle.Render("✗")
	default:
		return VerboseStyle.Render("-")
	}
}
