package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"gitoperator/pkg/config"
	"gitoperator/pkg/gitcontent"
)

var (
	reconcileFile         string
	reconcileDryRun       bool
	reconcileReportStatus bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a single GitContent manifest",
	Long: `Reconcile a GitContent manifest from a local file, outside of shell-operator.

The manifest may be YAML or JSON. With --dry-run the repository is cloned and
the integration branch prepared locally, then the planned file changes are
printed; nothing is pushed and no pull request is opened.

Examples:
  gitoperator reconcile -f gitcontent.yaml --dry-run
  gitoperator reconcile -f gitcontent.yaml --report-status`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileFile, "file", "f", "", "GitContent manifest (YAML or JSON)")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Show planned file changes without pushing")
	reconcileCmd.Flags().BoolVar(&reconcileReportStatus, "report-status", false, "Write the Ready condition back to the cluster")
	_ = reconcileCmd.MarkFlagRequired("file")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	obj, err := loadManifest(reconcileFile)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, config.ModeReconcile)
	if err != nil {
		return err
	}

	reconciler, err := newReconciler(cfg, reconcilerOptions{
		dryRun:       reconcileDryRun,
		reportStatus: reconcileReportStatus && !reconcileDryRun,
	})
	if err != nil {
		return err
	}

	outcome, err := reconciler.Reconcile(cmd.Context(), obj)
	if err != nil {
		return err
	}

	printOutcome(cmd.OutOrStdout(), obj, outcome, reconcileDryRun)
	return nil
}

// loadManifest reads a GitContent object from a YAML or JSON file.
func loadManifest(path string) (*gitcontent.GitContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	obj, err := gitcontent.Decode(jsonData)
	if err != nil {
		return nil, err
	}

	if !gitcontent.IsGitContent(obj.APIVersion, obj.Kind) {
		return nil, fmt.Errorf("%s is a %s %s, expected %s %s",
			path, obj.APIVersion, obj.Kind, gitcontent.APIVersion, gitcontent.Kind)
	}
	return obj, nil
}

func printOutcome(w io.Writer, obj *gitcontent.GitContent, outcome *gitcontent.Outcome, dryRun bool) {
	repo := obj.Spec.Owner + "/" + obj.Spec.Name
	if dryRun {
		fmt.Fprintf(w, "📋 Planned changes for %s (base %s):\n", repo, outcome.Base)
	} else {
		fmt.Fprintf(w, "📋 Reconciled %s (base %s):\n", repo, outcome.Base)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"PATH", "ACTION"})
	for _, f := range outcome.Files {
		t.AppendRow(table.Row{f.Path, actionColor(f.Action).Sprint(string(f.Action))})
	}
	t.Render()

	switch {
	case dryRun && outcome.Changed:
		fmt.Fprintln(w, "🔍 Dry run: changes would be pushed and a pull request ensured")
	case dryRun:
		fmt.Fprintln(w, "✅ Dry run: repository is up to date")
	case outcome.PRCreated:
		fmt.Fprintln(w, "🚀 Changes pushed, pull request opened")
	case outcome.Changed:
		fmt.Fprintln(w, "🚀 Changes pushed to the open pull request")
	case outcome.PRExists:
		fmt.Fprintln(w, "✅ No changes, pull request still open")
	default:
		fmt.Fprintln(w, "✅ No changes, repository is in sync")
	}
}

func actionColor(a gitcontent.Action) text.Colors {
	switch a {
	case gitcontent.ActionCreate:
		return text.Colors{text.FgGreen}
	case gitcontent.ActionOverwrite:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgHiBlack}
	}
}
