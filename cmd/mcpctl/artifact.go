package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"model-control-plane/pkg/mcp"
)

var artifactHeader = []string{"NAME", "VERSION", "KIND", "URI", "CREATED"}

func artifactRow(a mcp.ArtifactVersion) []string {
	return []string{
		a.Name,
		a.Version,
		a.Kind,
		orDash(truncate(a.URI, 60)),
		formatTime(a.CreatedAt),
	}
}

var artifactCmd = &cobra.Command{
	Use:     "artifact",
	Aliases: []string{"artifacts"},
	Short:   "Manage artifact versions",
}

var artifactRegisterCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register an artifact version",
	Long: `Register an artifact version in the workspace.

  mcpctl artifact register weights --version 4 --kind model-artifact \
    --uri s3://models/churn/4/model.pt --metadata framework=pytorch`,
	Args: cobra.ExactArgs(1),
	RunE: runArtifactRegister,
}

var artifactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artifact versions",
	Args:  cobra.NoArgs,
	RunE:  runArtifactList,
}

var artifactGetCmd = &cobra.Command{
	Use:   "get REF",
	Short: "Show an artifact version by ID or name",
	Long: `Show an artifact version. REF is an artifact version ID or an
artifact name; for a name, --version picks one of its versions and
the newest wins when omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runArtifactGet,
}

var artifactDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an artifact version and its links",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtifactDelete,
}

func init() {
	rootCmd.AddCommand(artifactCmd)
	artifactCmd.AddCommand(artifactRegisterCmd, artifactListCmd, artifactGetCmd, artifactDeleteCmd)

	artifactRegisterCmd.Flags().String("version", "", "artifact version label")
	artifactRegisterCmd.Flags().String("kind", "", "artifact kind: data-artifact, model-artifact or deployment-artifact")
	artifactRegisterCmd.Flags().String("uri", "", "storage location of the artifact")
	artifactRegisterCmd.Flags().StringArray("metadata", nil, "metadata entry key=value (repeatable)")
	artifactRegisterCmd.Flags().String("producer-run-id", "", "pipeline run that produced this artifact")

	artifactListCmd.Flags().String("kind", "", "filter by artifact kind")
	artifactListCmd.Flags().String("name", "", "filter by exact name")
	artifactListCmd.Flags().String("search", "", "filter by name substring")
	artifactListCmd.Flags().Int("limit", 0, "page size")
	artifactListCmd.Flags().Int("offset", 0, "page offset")
	artifactListCmd.Flags().String("sort-by", "", "sort column")
	artifactListCmd.Flags().String("order", "", "sort order: asc or desc")

	artifactGetCmd.Flags().String("version", "", "artifact version label when REF is a name")
}

func runArtifactRegister(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	in := mcp.CreateArtifactVersionInput{Name: args[0]}
	in.Version, _ = cmd.Flags().GetString("version")
	in.Kind, _ = cmd.Flags().GetString("kind")
	in.URI, _ = cmd.Flags().GetString("uri")

	if entries, _ := cmd.Flags().GetStringArray("metadata"); len(entries) > 0 {
		in.Metadata, err = parseKeyValues(entries)
		if err != nil {
			return err
		}
	}
	if raw, _ := cmd.Flags().GetString("producer-run-id"); raw != "" {
		runID, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		in.ProducerRunID = &runID
	}

	artifact, err := client.CreateArtifactVersion(cmd.Context(), in)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, artifact, artifactHeader, [][]string{artifactRow(*artifact)})
}

func runArtifactList(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	opts := &mcp.ListArtifactVersionsOptions{}
	opts.Kind, _ = cmd.Flags().GetString("kind")
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Offset, _ = cmd.Flags().GetInt("offset")
	opts.SortBy, _ = cmd.Flags().GetString("sort-by")
	opts.Order, _ = cmd.Flags().GetString("order")

	list, err := client.ListArtifactVersions(cmd.Context(), opts)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list.Items))
	for _, a := range list.Items {
		rows = append(rows, artifactRow(a))
	}
	return render(cmd.OutOrStdout(), s.Output, list, artifactHeader, rows)
}

func runArtifactGet(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	var artifact *mcp.ArtifactVersion
	if id, parseErr := uuid.Parse(args[0]); parseErr == nil {
		artifact, err = client.GetArtifactVersion(cmd.Context(), id)
	} else {
		version, _ := cmd.Flags().GetString("version")
		artifact, err = client.FindArtifactVersion(cmd.Context(), args[0], version)
	}
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, artifact, artifactHeader, [][]string{artifactRow(*artifact)})
}

func runArtifactDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return err
	}
	if err := client.DeleteArtifactVersion(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("artifact version %s deleted\n", id)
	return nil
}
