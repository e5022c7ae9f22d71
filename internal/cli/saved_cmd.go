package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSavedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved recipes",
	}

	cmd.AddCommand(
		newSavedListCmd(app),
		newSavedDeleteCmd(app),
	)

	return cmd
}

func newSavedListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved recipes, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes := app.Store.List(cmd.Context())
			out := cmd.OutOrStdout()

			if len(recipes) == 0 {
				fmt.Fprintln(out, "No saved recipes yet. Generate one to get started!")
				return nil
			}

			sort.SliceStable(recipes, func(i, j int) bool {
				return recipes[i].Timestamp > recipes[j].Timestamp
			})

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMOOD\tDATE")
			for _, r := range recipes {
				date := time.UnixMilli(r.Timestamp).Format("Jan 2, 2006")
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Mood, date)
			}
			return tw.Flush()
		},
	}
}

func newSavedDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context())
		},
	}
}
