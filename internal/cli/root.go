package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"moodchef/internal/recipe"
)

// Generator produces recipes.
type Generator interface {
	Generate(ctx context.Context, req recipe.Request) (*recipe.Recipe, error)
}

// Store holds saved recipes.
type Store interface {
	Save(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	List(ctx context.Context) []recipe.Recipe
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, r recipe.Recipe) bool
}

// App holds what the commands need.
type App struct {
	Generator Generator
	Store     Store
	// Serve runs the HTTP server until ctx is done. Nil hides the serve command.
	Serve func(ctx context.Context) error
	Out   io.Writer
}

// NewRootCmd creates the top-level "moodchef" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "moodchef",
		Short:         "Recipes matched to your mood",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if app.Out != nil {
		root.SetOut(app.Out)
	}

	root.AddCommand(
		newGenerateCmd(app),
		newSavedCmd(app),
	)
	if app.Serve != nil {
		root.AddCommand(newServeCmd(app))
	}

	return root
}
