package repository

import (
	"context"

	"rrlogistics/models"
)

type RateCardRepository interface {
	Create(ctx context.Context, card *models.RateCard) error
	GetByID(ctx context.Context, id string) (*models.RateCard, error)
	FindByKey(ctx context.Context, key models.RateCardKey, activeOnly bool) (*models.RateCard, error)
	List(ctx context.Context, filter models.RateCardFilter) ([]*models.RateCard, error)
	Update(ctx context.Context, card *models.RateCard) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
