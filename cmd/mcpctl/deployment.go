package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"model-control-plane/pkg/mcp"
)

var deploymentHeader = []string{"NAME", "MODEL", "VERSION", "STAGE", "STATUS", "URL", "CREATED"}

func deploymentRow(d mcp.Deployment) []string {
	return []string{
		d.Name,
		orDash(d.ModelName),
		orDash(d.VersionName),
		orDash(d.VersionStage),
		d.Status,
		orDash(truncate(d.URL, 60)),
		formatTime(d.CreatedAt),
	}
}

var deploymentCmd = &cobra.Command{
	Use:     "deployment",
	Aliases: []string{"deployments", "deploy"},
	Short:   "Manage serving deployments",
}

var deploymentCreateCmd = &cobra.Command{
	Use:   "create MODEL",
	Short: "Deploy a model version to the serving backend",
	Long: `Deploy a model version to the serving backend. The rollout is
asynchronous; check progress with "deployment sync" or "deployment get".

  mcpctl deployment create churn-predictor --version production
  mcpctl deployment create churn-predictor --version 3 --namespace ml-prod`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploymentCreate,
}

var deploymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployments",
	Args:  cobra.NoArgs,
	RunE:  runDeploymentList,
}

var deploymentGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one deployment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeploymentGet,
}

var deploymentDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Tear a deployment down",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeploymentDelete,
}

var deploymentSyncCmd = &cobra.Command{
	Use:   "sync ID",
	Short: "Refresh a deployment's status from the serving backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeploymentSync,
}

func init() {
	rootCmd.AddCommand(deploymentCmd)
	deploymentCmd.AddCommand(deploymentCreateCmd, deploymentListCmd, deploymentGetCmd, deploymentDeleteCmd, deploymentSyncCmd)

	deploymentCreateCmd.Flags().String("version", "", "version reference, empty means latest")
	deploymentCreateCmd.Flags().String("name", "", "deployment name, derived from model and version when empty")
	deploymentCreateCmd.Flags().String("namespace", "", "target namespace")

	deploymentListCmd.Flags().String("status", "", "filter by status")
	deploymentListCmd.Flags().String("model-version-id", "", "filter by model version ID")
	deploymentListCmd.Flags().Int("limit", 0, "page size")
	deploymentListCmd.Flags().Int("offset", 0, "page offset")
}

func runDeploymentCreate(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	in := mcp.DeployInput{Model: args[0]}
	in.Version, _ = cmd.Flags().GetString("version")
	in.Name, _ = cmd.Flags().GetString("name")
	in.Namespace, _ = cmd.Flags().GetString("namespace")

	result, err := client.Deploy(cmd.Context(), in)
	if err != nil {
		return err
	}
	if s.Output != outputTable {
		return render(cmd.OutOrStdout(), s.Output, result, nil, nil)
	}
	if err := renderTable(cmd.OutOrStdout(), deploymentHeader, [][]string{deploymentRow(result.Deployment)}); err != nil {
		return err
	}
	cmd.Println(result.Message)
	return nil
}

func runDeploymentList(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	opts := &mcp.ListDeploymentsOptions{}
	opts.Status, _ = cmd.Flags().GetString("status")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Offset, _ = cmd.Flags().GetInt("offset")
	if raw, _ := cmd.Flags().GetString("model-version-id"); raw != "" {
		versionID, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		opts.ModelVersionID = versionID
	}

	list, err := client.ListDeployments(cmd.Context(), opts)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list.Items))
	for _, d := range list.Items {
		rows = append(rows, deploymentRow(d))
	}
	return render(cmd.OutOrStdout(), s.Output, list, deploymentHeader, rows)
}

func runDeploymentGet(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return err
	}
	deployment, err := client.GetDeployment(cmd.Context(), id)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, deployment, deploymentHeader, [][]string{deploymentRow(*deployment)})
}

func runDeploymentDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return err
	}
	if err := client.Undeploy(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("deployment %s deleted\n", id)
	return nil
}

func runDeploymentSync(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return err
	}
	deployment, err := client.SyncDeployment(cmd.Context(), id)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, deployment, deploymentHeader, [][]string{deploymentRow(*deployment)})
}
