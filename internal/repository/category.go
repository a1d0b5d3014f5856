package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/models"
)

type categoryRepository struct {
	gw *gateway.Client
}

// NewCategoryRepository creates a category repository over the webhook gateway.
func NewCategoryRepository(gw *gateway.Client) CategoryRepository {
	return &categoryRepository{gw: gw}
}

func (r *categoryRepository) Fetch(ctx context.Context, userID string) ([]models.Category, error) {
	raw, err := r.gw.Request(ctx, "category/fetch", http.MethodPost, map[string]string{"user_id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return decodeList[models.Category](raw, "category/fetch")
}

func (r *categoryRepository) Create(ctx context.Context, userID string, draft models.CategoryDraft) (*models.Category, error) {
	raw, err := r.gw.Request(ctx, "category/create", http.MethodPost, draft, userID)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return requireFirst[models.Category](raw, "category/create")
}

func (r *categoryRepository) Update(ctx context.Context, userID, categoryID string, upd models.CategoryUpdate) (*models.Category, error) {
	payload := struct {
		models.CategoryUpdate
		CategoryID string `json:"cat_id"`
	}{CategoryUpdate: upd, CategoryID: categoryID}

	raw, err := r.gw.Request(ctx, "category/update", http.MethodPost, payload, userID)
	if err != nil {
		return nil, fmt.Errorf("updating category %s: %w", categoryID, err)
	}
	return requireFirst[models.Category](raw, "category/update")
}

func (r *categoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	_, err := r.gw.Request(ctx, "category/delete", http.MethodPost, map[string]string{"cat_id": categoryID}, userID)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", categoryID, err)
	}
	return nil
}
