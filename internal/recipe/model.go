package recipe

import (
	"strconv"
	"strings"
)

// Recipe represents the structure of a generated recipe.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Explanation  string   `json:"explanation"`
	Mood         string   `json:"mood"`
	Timestamp    int64    `json:"timestamp"` // Unix milliseconds, set at generation
	ID           string   `json:"id,omitempty"`
}

// Request carries a mood and the optional constraints for one generation.
type Request struct {
	Mood        string   `json:"mood"`
	Allergies   []string `json:"allergies,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Cuisine     string   `json:"cuisine,omitempty"`
	DishType    string   `json:"dishType,omitempty"`
}

// IdentityOf returns the key the store uses to recognise a recipe: its ID if
// it has one, otherwise "recipe-" followed by its timestamp.
func IdentityOf(r Recipe) string {
	if r.ID != "" {
		return r.ID
	}
	return "recipe-" + strconv.FormatInt(r.Timestamp, 10)
}

// SameRecipe reports whether a and b match by id (when both carry one) or by
// timestamp.
func SameRecipe(a, b Recipe) bool {
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}
	return a.Timestamp == b.Timestamp
}

// withEmptySlices replaces nil sequences so JSON renders [] instead of null.
func withEmptySlices(r Recipe) Recipe {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	return r
}

// Moods is the catalogue of predefined moods offered to users. Any other
// free-text mood is accepted as well.
var Moods = []string{
	"tired",
	"adventurous",
	"lazy",
	"cozy",
	"energetic",
	"romantic",
	"stressed",
	"celebratory",
}

// Cuisines lists the cuisine styles offered to users.
var Cuisines = []string{
	"Mexican", "French", "Japanese", "Italian", "Chinese", "Thai", "Indian",
	"Mediterranean", "American", "Korean", "Vietnamese", "Greek", "Spanish",
	"Middle Eastern", "Caribbean", "Brazilian", "Moroccan", "Turkish", "German",
}

// DishTypes lists the dish categories offered to users.
var DishTypes = []string{
	"Appetizer", "Main Course", "Dessert", "Snack", "Beverage", "Breakfast",
	"Lunch", "Dinner", "Side Dish", "Soup", "Salad", "Sandwich", "Pasta", "Pizza",
}

// anyOption is what selectors send when no cuisine or dish type is chosen.
const anyOption = "any"

// optional trims s and maps "" and "Any" to absent.
func optional(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, anyOption) {
		return ""
	}
	return s
}

// cleanList keeps the non-empty trimmed entries of list.
func cleanList(list []string) []string {
	var out []string
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
