package recipe

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// DefaultSlotKey names the slot holding the saved-recipe collection.
const DefaultSlotKey = "mood-recipe-match-saved-recipes"

// Store is the saved-recipe collection, kept as one JSON array in a Slot.
// Every write reads the whole collection, changes it and writes it back;
// concurrent writers are not coordinated.
type Store struct {
	slot   Slot
	key    string
	logger *zap.Logger
}

// NewStore creates a Store over slot using DefaultSlotKey.
func NewStore(slot Slot, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{slot: slot, key: DefaultSlotKey, logger: logger}
}

// Save assigns an ID if the recipe has none, appends it and persists the
// collection. It does not check for duplicates; use Exists first.
func (s *Store) Save(ctx context.Context, r Recipe) (Recipe, error) {
	r.ID = IdentityOf(r)
	r = withEmptySlices(r)

	saved, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to read saved recipes before save", zap.String("id", r.ID), zap.Error(err))
		return Recipe{}, newError(ErrPersistence, "Failed to save recipe. Please try again.", err)
	}
	saved = append(saved, r)

	if err := s.write(ctx, saved); err != nil {
		s.logger.Error("failed to save recipe", zap.String("id", r.ID), zap.Error(err))
		return Recipe{}, newError(ErrPersistence, "Failed to save recipe. Please try again.", err)
	}

	s.logger.Debug("recipe saved", zap.String("id", r.ID), zap.Int("total", len(saved)))
	return r, nil
}

// List returns the saved recipes in stored order. A missing, unreadable or
// corrupt collection reads as empty.
func (s *Store) List(ctx context.Context) []Recipe {
	saved, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to read saved recipes", zap.Error(err))
		return []Recipe{}
	}
	return saved
}

// load reads the collection. Absent or corrupt data is an empty collection;
// only a failed slot read is an error, so writers never replace data they
// could not read.
func (s *Store) load(ctx context.Context) ([]Recipe, error) {
	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []Recipe{}, nil
	}

	var saved []Recipe
	if err := json.Unmarshal(data, &saved); err != nil {
		s.logger.Warn("saved recipes are corrupt, treating as empty", zap.Error(err))
		return []Recipe{}, nil
	}

	for i := range saved {
		saved[i] = withEmptySlices(saved[i])
	}
	if saved == nil {
		saved = []Recipe{}
	}
	return saved, nil
}

// Delete removes every saved recipe whose identity equals id. Deleting an
// unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	saved, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to read saved recipes before delete", zap.String("id", id), zap.Error(err))
		return newError(ErrPersistence, "Failed to delete recipe. Please try again.", err)
	}

	kept := make([]Recipe, 0, len(saved))
	for _, r := range saved {
		if IdentityOf(r) != id {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(saved) {
		return nil
	}

	if err := s.write(ctx, kept); err != nil {
		s.logger.Error("failed to delete recipe", zap.String("id", id), zap.Error(err))
		return newError(ErrPersistence, "Failed to delete recipe. Please try again.", err)
	}

	s.logger.Debug("recipe deleted", zap.String("id", id), zap.Int("removed", len(saved)-len(kept)))
	return nil
}

// Exists reports whether a saved recipe matches r by id or timestamp. Read
// errors count as not found.
func (s *Store) Exists(ctx context.Context, r Recipe) bool {
	for _, saved := range s.List(ctx) {
		if SameRecipe(saved, r) {
			return true
		}
	}
	return false
}

func (s *Store) write(ctx context.Context, recipes []Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		return err
	}
	return nil
}
