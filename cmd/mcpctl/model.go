package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"model-control-plane/pkg/mcp"
)

var modelHeader = []string{"NAME", "VERSIONS", "LATEST", "STAGE", "TAGS", "CREATED"}

func modelRow(m mcp.Model) []string {
	latest := "-"
	stage := "-"
	if m.LatestVersion != nil {
		latest = m.LatestVersion.Name
		stage = m.LatestVersion.Stage
	}
	return []string{
		m.Name,
		strconv.Itoa(m.VersionCount),
		latest,
		stage,
		formatTags(m.Tags),
		formatTime(m.CreatedAt),
	}
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage registered models",
}

var modelRegisterCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a new model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelRegister,
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runModelList,
}

var modelGetCmd = &cobra.Command{
	Use:   "get MODEL",
	Short: "Show one model by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelGet,
}

var modelUpdateCmd = &cobra.Command{
	Use:   "update MODEL",
	Short: "Update card fields or tags of a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelUpdate,
}

var modelDeleteCmd = &cobra.Command{
	Use:   "delete MODEL",
	Short: "Delete a model and all its versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelDelete,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelRegisterCmd, modelListCmd, modelGetCmd, modelUpdateCmd, modelDeleteCmd)

	for _, cmd := range []*cobra.Command{modelRegisterCmd, modelUpdateCmd} {
		cmd.Flags().String("description", "", "what the model does")
		cmd.Flags().String("license", "", "model license")
		cmd.Flags().String("audience", "", "target audience")
		cmd.Flags().String("use-cases", "", "intended use cases")
		cmd.Flags().String("limitations", "", "known limitations")
		cmd.Flags().String("trade-offs", "", "known trade-offs")
		cmd.Flags().String("ethics", "", "ethical considerations")
		cmd.Flags().StringArray("tag", nil, "tag to attach (repeatable)")
	}

	modelListCmd.Flags().String("search", "", "filter by name or description substring")
	modelListCmd.Flags().String("tag", "", "filter by tag")
	modelListCmd.Flags().Int("limit", 0, "page size")
	modelListCmd.Flags().Int("offset", 0, "page offset")
	modelListCmd.Flags().String("sort-by", "", "sort column")
	modelListCmd.Flags().String("order", "", "sort order: asc or desc")

	modelDeleteCmd.Flags().Bool("force", false, "delete even when a version holds staging or production")
}

func runModelRegister(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	in := mcp.CreateModelInput{Name: args[0]}
	in.Description, _ = cmd.Flags().GetString("description")
	in.License, _ = cmd.Flags().GetString("license")
	in.Audience, _ = cmd.Flags().GetString("audience")
	in.UseCases, _ = cmd.Flags().GetString("use-cases")
	in.Limitations, _ = cmd.Flags().GetString("limitations")
	in.TradeOffs, _ = cmd.Flags().GetString("trade-offs")
	in.Ethics, _ = cmd.Flags().GetString("ethics")
	in.Tags, _ = cmd.Flags().GetStringArray("tag")

	model, err := client.CreateModel(cmd.Context(), in)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, model, modelHeader, [][]string{modelRow(*model)})
}

func runModelList(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	opts := &mcp.ListModelsOptions{}
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Tag, _ = cmd.Flags().GetString("tag")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Offset, _ = cmd.Flags().GetInt("offset")
	opts.SortBy, _ = cmd.Flags().GetString("sort-by")
	opts.Order, _ = cmd.Flags().GetString("order")

	list, err := client.ListModels(cmd.Context(), opts)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list.Items))
	for _, m := range list.Items {
		rows = append(rows, modelRow(m))
	}
	return render(cmd.OutOrStdout(), s.Output, list, modelHeader, rows)
}

func runModelGet(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	model, err := client.GetModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, model, modelHeader, [][]string{modelRow(*model)})
}

func runModelUpdate(cmd *cobra.Command, args []string) error {
	client, s, err := newClient(cmd)
	if err != nil {
		return err
	}

	in := mcp.UpdateModelInput{}
	stringFlag := func(name string, target **string) {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			*target = &v
		}
	}
	stringFlag("description", &in.Description)
	stringFlag("license", &in.License)
	stringFlag("audience", &in.Audience)
	stringFlag("use-cases", &in.UseCases)
	stringFlag("limitations", &in.Limitations)
	stringFlag("trade-offs", &in.TradeOffs)
	stringFlag("ethics", &in.Ethics)
	if cmd.Flags().Changed("tag") {
		in.Tags, _ = cmd.Flags().GetStringArray("tag")
	}

	model, err := client.UpdateModel(cmd.Context(), args[0], in)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), s.Output, model, modelHeader, [][]string{modelRow(*model)})
}

func runModelDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := client.DeleteModel(cmd.Context(), args[0], force); err != nil {
		return err
	}
	cmd.Printf("model %q deleted\n", args[0])
	return nil
}
