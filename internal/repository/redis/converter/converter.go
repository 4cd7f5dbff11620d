package converter

import "github.com/DRSN-tech/go-marketplace/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type ProductConverterImpl struct{}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:          entity.ID,
		OwnerID:     entity.OwnerID,
		Slug:        entity.Slug,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		CoverKey:    entity.CoverKey,
		ContentURL:  entity.ContentURL,
		IsActive:    entity.IsActive,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:          model.ID,
		OwnerID:     model.OwnerID,
		Slug:        model.Slug,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		CoverKey:    model.CoverKey,
		ContentURL:  model.ContentURL,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
