package cmd

import (
	"github.com/spf13/cobra"

	"gitoperator/pkg/crd"
)

var crdCmd = &cobra.Command{
	Use:   "crd",
	Short: "Print the GitContent CustomResourceDefinition",
	Long: `Print the CustomResourceDefinition of wingcloud.com/v1 GitContent as YAML.

Examples:
  gitoperator crd | kubectl apply -f -`,
	Args: cobra.NoArgs,
	RunE: runCRD,
}

func runCRD(cmd *cobra.Command, _ []string) error {
	data, err := crd.Marshal(crd.GitContent())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
