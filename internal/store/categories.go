package store

import (
	"context"
	"fmt"

	"github.com/dotlabs/dot-agent/internal/models"
)

// AddCategory creates a category and appends the server's canonical record
// to local state.
func (s *Store) AddCategory(ctx context.Context, draft models.CategoryDraft) (*models.Category, error) {
	userID, err := s.requireUser(ctx, "add category")
	if err != nil {
		return nil, err
	}

	created, err := s.repos.Categories.Create(ctx, userID, draft)
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}

	s.mu.Lock()
	s.categories = append(s.categories, *created)
	s.mu.Unlock()

	return created, nil
}

// UpdateCategory sends the changed fields and replaces the matching local
// category with the server's canonical version.
func (s *Store) UpdateCategory(ctx context.Context, categoryID string, upd models.CategoryUpdate) (*models.Category, error) {
	userID, err := s.requireUser(ctx, "update category")
	if err != nil {
		return nil, err
	}

	updated, err := s.repos.Categories.Update(ctx, userID, categoryID, upd)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// DeleteCategory removes the category remotely and locally, then rewrites
// every task that pointed at it to the uncategorized sentinel. The backend
// is not assumed to cascade, so the rewrite is a client-side side effect.
func (s *Store) DeleteCategory(ctx context.Context, categoryID string) error {
	userID, err := s.requireUser(ctx, "delete category")
	if err != nil {
		return err
	}

	if err := s.repos.Categories.Delete(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.mu.Lock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	s.categories = kept

	for i := range s.tasks {
		if s.tasks[i].CategoryID == categoryID {
			s.tasks[i].CategoryID = models.UncategorizedID
		}
	}
	s.mu.Unlock()

	return nil
}
