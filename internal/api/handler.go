package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodchef/internal/recipe"
)

// RecipeGenerator defines the interface for generating recipes.
type RecipeGenerator interface {
	Generate(ctx context.Context, req recipe.Request) (*recipe.Recipe, error)
}

// RecipeStore defines the interface for saved-recipe operations.
type RecipeStore interface {
	Save(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	List(ctx context.Context) []recipe.Recipe
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, r recipe.Recipe) bool
}

// Timeouts bounds the work a single request may do.
type Timeouts struct {
	Generate time.Duration
	Store    time.Duration
}

// DefaultTimeouts are used for zero values.
var DefaultTimeouts = Timeouts{Generate: 45 * time.Second, Store: 5 * time.Second}

// Handler handles HTTP requests.
type Handler struct {
	Generator   RecipeGenerator
	RecipeStore RecipeStore
	Timeouts    Timeouts
	Logger      *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(generator RecipeGenerator, store RecipeStore, timeouts Timeouts, logger *zap.Logger) *Handler {
	if timeouts.Generate <= 0 {
		timeouts.Generate = DefaultTimeouts.Generate
	}
	if timeouts.Store <= 0 {
		timeouts.Store = DefaultTimeouts.Store
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Generator: generator, RecipeStore: store, Timeouts: timeouts, Logger: logger}
}

// generateBody is the inbound generation request. Fields of the wrong JSON
// type are treated as absent; list fields keep only their string elements.
type generateBody struct {
	Mood        any `json:"mood"`
	Allergies   any `json:"allergies"`
	Ingredients any `json:"ingredients"`
	Cuisine     any `json:"cuisine"`
	DishType    any `json:"dishType"`
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// GenerateRecipe handles POST /api/recipe.
func (h *Handler) GenerateRecipe(c *gin.Context) {
	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		msg := "Request body must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "Mood is required and must be a non-empty string"
		}
		c.JSON(http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	mood, ok := body.Mood.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Mood is required and must be a non-empty string"})
		return
	}

	req := recipe.Request{
		Mood:        mood,
		Allergies:   stringsOnly(body.Allergies),
		Ingredients: stringsOnly(body.Ingredients),
		Cuisine:     stringOrEmpty(body.Cuisine),
		DishType:    stringOrEmpty(body.DishType),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeouts.Generate)
	defer cancel()

	r, err := h.Generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, errorBody{Error: "Recipe generation timed out. Please try again."})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// ListRecipes handles GET /api/recipes. Most recent first.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeouts.Store)
	defer cancel()

	recipes := h.RecipeStore.List(ctx)
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].Timestamp > recipes[j].Timestamp
	})

	c.JSON(http.StatusOK, recipes)
}

// SaveRecipe handles POST /api/recipes. A recipe that is already saved is
// rejected with 409.
func (h *Handler) SaveRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Request body must be a recipe"})
		return
	}
	if msg := invalidSavedRecipe(r); msg != "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeouts.Store)
	defer cancel()

	if h.RecipeStore.Exists(ctx, r) {
		c.JSON(http.StatusConflict, errorBody{Error: "Recipe is already saved"})
		return
	}

	saved, err := h.RecipeStore.Save(ctx, r)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// RecipeExists handles POST /api/recipes/exists.
func (h *Handler) RecipeExists(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Request body must be a recipe"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeouts.Store)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{"saved": h.RecipeStore.Exists(ctx, r)})
}

// DeleteRecipe handles DELETE /api/recipes/:id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeouts.Store)
	defer cancel()

	if err := h.RecipeStore.Delete(ctx, id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Options handles GET /api/options.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"moods":     recipe.Moods,
		"cuisines":  recipe.Cuisines,
		"dishTypes": recipe.DishTypes,
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, recipe.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, recipe.ErrBackend), errors.Is(err, recipe.ErrParse):
		status = http.StatusBadGateway
	case errors.Is(err, recipe.ErrPersistence):
		status = http.StatusInternalServerError
	}

	msg := "Something went wrong. Please try again."
	var classified *recipe.Error
	if errors.As(err, &classified) {
		msg = classified.Message
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, errorBody{Error: msg})
}

// invalidSavedRecipe returns why r cannot be saved, or "" if it can. Only
// generated recipes are saved, so name, mood and timestamp are always set.
func invalidSavedRecipe(r recipe.Recipe) string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "Recipe name is required"
	case strings.TrimSpace(r.Mood) == "":
		return "Recipe mood is required"
	case r.Timestamp <= 0:
		return "Recipe timestamp must be a positive number"
	}
	return ""
}

func stringsOnly(v any) []string {
	values, _ := v.([]any)
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}
