package main

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"model-control-plane/pkg/mcp"
)

var versionHeader = []string{"NUMBER", "NAME", "STAGE", "TAGS", "CREATED"}

func versionRow(v mcp.ModelVersion) []string {
	return []string{
		strconv.Itoa(v.Number),
		v.Name,
		v.Stage,
		formatTags(v.Tags),
		formatTime(v.CreatedAt),
	}
}

var modelVersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"versions"},
	Short:   "Manage model versions",
	Long: `Manage the versions of a registered model.

Versions are addressed by ID, number, name, stage or "latest":

  mcpctl model version get churn-predictor 3
  mcpctl model version get churn-predictor production
  mcpctl model version promote churn-predictor latest --stage staging`,
}

var versionListCmd = &cobra.Command{
	Use:   "list MODEL",
	Short: "List versions of a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionList,
}

var versionGetCmd = &cobra.Command{
	Use:   "get MODEL REF",
	Short: "Show one version of a model",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionGet,
}

var versionUpdateCmd = &cobra.Command{
	Use:   "update MODEL REF",
	Short: "Update name, description or tags of a version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionUpdate,
}

var versionDeleteCmd = &cobra.Command{
	Use:   "delete MODEL REF",
	Short: "Delete a version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionDelete,
}

var versionPromoteCmd = &cobra.Command{
	Use:   "promote MODEL REF",
	Short: "Move a version to a lifecycle stage",
	Long: `Move a version to a lifecycle stage (staging, production, archived
or none).

Staging and production are exclusive per model. Promoting into an
occupied slot fails unless --force is given, which archives the
current holder.`,
	Args: cobra.ExactArgs(2),
	RunE: runVersionPromote,
}

var versionLogMetadataCmd = &cobra.Command{
	Use:   "log-metadata MODEL REF KEY=VALUE ...",
	Short: "Merge metadata entries into a version",
	Long: `Merge key=value entries into a version's metadata. Existing keys
are overwritten, other entries are kept. Values that parse as numbers
or booleans are stored typed.

  mcpctl model version log-metadata churn-predictor latest accuracy=0.93 dataset=q3`,
	Args: cobra.MinimumNArgs(3),
	RunE: runVersionLogMetadata,
}

var versionArtifactsCmd = &cobra.Command{
	Use:   "artifacts MODEL REF",
	Short: "List artifacts linked to a version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionArtifacts,
}

var versionLinkArtifactCmd = &cobra.Command{
	Use:   "link-artifact MODEL REF ARTIFACT_ID",
	Short: "Link an artifact version to a model version",
	Args:  cobra.ExactArgs(3),
	RunE:  runVersionLinkArtifact,
}

var versionUnlinkArtifactCmd = &cobra.Command{
	Use:   "unlink-artifact MODEL REF ARTIFACT_ID",
	Short: "Remove an artifact link from a model version",
	Args:  cobra.ExactArgs(3),
	RunE:  runVersionUnlinkArtifact,
}

var versionLineageCmd = &cobra.Command{
	Use:   "lineage MODEL REF",
	Short: "Show the provenance graph of a version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionLineage,
}

func init() {
	modelCmd.AddCommand(modelVersionCmd)
	modelVersionCmd.AddCommand(
		versionListCmd, versionGetCmd, versionUpdateCmd, versionDeleteCmd,
		versionPromoteCmd, versionLogMetadataCmd, versionArtifactsCmd,
		versionLinkArtifactCmd, versionUnlinkArtifactCmd, versionLineageCmd,
	)

	versionListCmd.Flags().String("stage", "", "filter by stage")
	versionListCmd.Flags().String("search", "", "filter by name or description substring")
	versionListCmd.Flags().Int("limit", 0, "page size")
	versionListCmd.Flags().Int("offset", 0, "page offset")
	versionListCmd.Flags().String("sort-by", "", "sort column")
	versionListCmd.Flags().String("order", "", "sort order: asc or desc")

	versionUpdateCmd.Flags().String("name", "", "new version name")
	versionUpdateCmd.Flags().String("description", "", "new description")
	versionUpdateCmd.Flags().StringArray("tag", nil, "tag to attach (repeatable)")

	versionDeleteCmd.Flags().Bool("force", false, "delete even when the version holds staging or production")

	versionPromoteCmd.Flags().String("stage", "", "target stage (required)")
	_ = versionPromoteCmd.MarkFlagRequired("stage")
	versionPromoteCmd.Flags().Bool("force", false, "archive the current stage holder if the slot is taken")

	versionArtifactsCmd.Flags().String("kind", "", "restrict to one artifact kind")
}

func runVersionList(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	opts := &mcp.ListModelVersionsOptions{}
	opts.Stage, _ = cmd.Flags().GetString("stage")
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Offset, _ = cmd.Flags().GetInt("offset")
	opts.SortBy, _ = cmd.Flags().GetString("sort-by")
	opts.Order, _ = cmd.Flags().GetString("order")

	list, err := client.ListModelVersions(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list.Items))
	for _, v := range list.Items {
		rows = append(rows, versionRow(v))
	}
	return render(cmd.OutOrStdout(), s.Output, list, versionHeader, rows)
}

func runVersionGet(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	version, err := client.GetModelVersion(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, version, versionHeader, [][]string{versionRow(*version)})
}

func runVersionUpdate(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	in := mcp.UpdateModelVersionInput{}
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		in.Name = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		in.Description = &v
	}
	if cmd.Flags().Changed("tag") {
		in.Tags, _ = cmd.Flags().GetStringArray("tag")
	}

	version, err := client.UpdateModelVersion(cmd.Context(), args[0], args[1], in)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, version, versionHeader, [][]string{versionRow(*version)})
}

func runVersionDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := client.DeleteModelVersion(cmd.Context(), args[0], args[1], force); err != nil {
		return err
	}
	cmd.Printf("version %q of model %q deleted\n", args[1], args[0])
	return nil
}

func runVersionPromote(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	stage, _ := cmd.Flags().GetString("stage")
	force, _ := cmd.Flags().GetBool("force")

	version, err := client.SetStage(cmd.Context(), args[0], args[1], stage, force)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, version, versionHeader, [][]string{versionRow(*version)})
}

func runVersionLogMetadata(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	entries, err := parseKeyValues(args[2:])
	if err != nil {
		return err
	}

	version, err := client.LogMetadata(cmd.Context(), args[0], args[1], entries)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, version, versionHeader, [][]string{versionRow(*version)})
}

func runVersionArtifacts(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	list, err := client.ListVersionArtifacts(cmd.Context(), args[0], args[1], kind)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list.Items))
	for _, a := range list.Items {
		rows = append(rows, artifactRow(a))
	}
	return render(cmd.OutOrStdout(), s.Output, list, artifactHeader, rows)
}

func runVersionLinkArtifact(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	artifactID, err := uuid.Parse(args[2])
	if err != nil {
		return err
	}
	if err := client.LinkArtifact(cmd.Context(), args[0], args[1], artifactID); err != nil {
		return err
	}
	cmd.Printf("artifact %s linked to version %q of model %q\n", artifactID, args[1], args[0])
	return nil
}

func runVersionUnlinkArtifact(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	artifactID, err := uuid.Parse(args[2])
	if err != nil {
		return err
	}
	if err := client.UnlinkArtifact(cmd.Context(), args[0], args[1], artifactID); err != nil {
		return err
	}
	cmd.Printf("artifact %s unlinked from version %q of model %q\n", artifactID, args[1], args[0])
	return nil
}

func runVersionLineage(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	graph, err := client.Lineage(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if s.Output != outputTable {
		return render(cmd.OutOrStdout(), s.Output, graph, nil, nil)
	}

	nodeRows := make([][]string, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		nodeRows = append(nodeRows, []string{n.Kind, n.Name, orDash(truncate(n.Detail, 60)), n.ID})
	}
	if err := renderTable(cmd.OutOrStdout(), []string{"KIND", "NAME", "DETAIL", "ID"}, nodeRows); err != nil {
		return err
	}
	if len(graph.Edges) == 0 {
		return nil
	}

	cmd.Println()
	edgeRows := make([][]string, 0, len(graph.Edges))
	for _, e := range graph.Edges {
		edgeRows = append(edgeRows, []string{e.From, e.Relation, e.To})
	}
	return renderTable(cmd.OutOrStdout(), []string{"FROM", "RELATION", "TO"}, edgeRows)
}
