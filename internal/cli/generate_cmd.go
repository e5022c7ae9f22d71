package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"moodchef/internal/recipe"
)

func newGenerateCmd(app *App) *cobra.Command {
	var req recipe.Request
	var save, asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a recipe for a mood",
		Example: `  moodchef generate --mood cozy
  moodchef generate --mood "rainy sunday" --allergy peanuts --ingredient tea --cuisine Indian --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			r, err := app.Generator.Generate(ctx, req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
			} else {
				printRecipe(out, *r)
			}

			if !save {
				return nil
			}
			if app.Store.Exists(ctx, *r) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Recipe is already saved")
				return nil
			}
			saved, err := app.Store.Save(ctx, *r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Mood, "mood", "", fmt.Sprintf("How you feel (e.g. %s)", strings.Join(recipe.Moods, ", ")))
	cmd.Flags().StringSliceVar(&req.Allergies, "allergy", nil, "Allergen to exclude (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&req.Ingredients, "ingredient", nil, "Ingredient to include (repeatable or comma-separated)")
	cmd.Flags().StringVar(&req.Cuisine, "cuisine", "", "Cuisine style")
	cmd.Flags().StringVar(&req.DishType, "dish-type", "", "Dish type, e.g. Dessert")
	cmd.Flags().BoolVar(&save, "save", false, "Save the generated recipe")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the recipe as JSON")
	_ = cmd.MarkFlagRequired("mood")

	return cmd
}

func printRecipe(w io.Writer, r recipe.Recipe) {
	fmt.Fprintf(w, "%s  (mood: %s)\n", r.Name, r.Mood)

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "  • %s\n", ing)
		}
	}

	if len(r.Instructions) > 0 {
		fmt.Fprintln(w, "\nInstructions:")
		for i, step := range r.Instructions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}

	fmt.Fprintf(w, "\n%s\n", r.Explanation)
}
