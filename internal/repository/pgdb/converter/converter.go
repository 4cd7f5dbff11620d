package converter

import (
	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// AccountConverter преобразует сущности Account между domain и моделью PostgreSQL.
type AccountConverter interface {
	ToModel(entity *domain.Account) *AccountModel
	ToEntity(model *AccountModel) *domain.Account
}

type LibraryConverter interface {
	ToEntity(model *LibraryModel) *domain.Library
}

// DeferredPurchaseConverter преобразует отложенные покупки между domain и моделью PostgreSQL.
type DeferredPurchaseConverter interface {
	ToModel(entity *domain.DeferredPurchase) *DeferredPurchaseModel
	ToEntity(model *DeferredPurchaseModel) *domain.DeferredPurchase
	ToArrEntity(models []*DeferredPurchaseModel) []domain.DeferredPurchase
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
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

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
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

func (c *ProductConverterImpl) ToArrEntity(models []*ProductModel) []domain.Product {
	res := make([]domain.Product, 0, len(models))
	for _, m := range models {
		res = append(res, *c.ToEntity(m))
	}

	return res
}

type AccountConverterImpl struct{}

func (c *AccountConverterImpl) ToModel(entity *domain.Account) *AccountModel {
	if entity == nil {
		return nil
	}

	return &AccountModel{
		ID:               entity.ID,
		Email:            entity.Email,
		Username:         entity.Username,
		Name:             entity.Name,
		PasswordHash:     entity.PasswordHash,
		StripeCustomerID: entity.StripeCustomerID,
		StripeAccountID:  entity.StripeAccountID,
		PayoutsEnabled:   entity.PayoutsEnabled,
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
	}
}

func (c *AccountConverterImpl) ToEntity(model *AccountModel) *domain.Account {
	if model == nil {
		return nil
	}

	return &domain.Account{
		ID:               model.ID,
		Email:            model.Email,
		Username:         model.Username,
		Name:             model.Name,
		PasswordHash:     model.PasswordHash,
		StripeCustomerID: model.StripeCustomerID,
		StripeAccountID:  model.StripeAccountID,
		PayoutsEnabled:   model.PayoutsEnabled,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

type LibraryConverterImpl struct{}

func (c *LibraryConverterImpl) ToEntity(model *LibraryModel) *domain.Library {
	if model == nil {
		return nil
	}

	return &domain.Library{
		ID:        model.ID,
		AccountID: model.AccountID,
		CreatedAt: model.CreatedAt,
	}
}

type DeferredPurchaseConverterImpl struct{}

func (c *DeferredPurchaseConverterImpl) ToModel(entity *domain.DeferredPurchase) *DeferredPurchaseModel {
	if entity == nil {
		return nil
	}

	return &DeferredPurchaseModel{
		ID:               entity.ID,
		Email:            entity.Email,
		ProductID:        entity.ProductID,
		ClaimedAt:        entity.ClaimedAt,
		ClaimedAccountID: entity.ClaimedAccountID,
		CreatedAt:        entity.CreatedAt,
	}
}

func (c *DeferredPurchaseConverterImpl) ToEntity(model *DeferredPurchaseModel) *domain.DeferredPurchase {
	if model == nil {
		return nil
	}

	return &domain.DeferredPurchase{
		ID:               model.ID,
		Email:            model.Email,
		ProductID:        model.ProductID,
		ClaimedAt:        model.ClaimedAt,
		ClaimedAccountID: model.ClaimedAccountID,
		CreatedAt:        model.CreatedAt,
	}
}

func (c *DeferredPurchaseConverterImpl) ToArrEntity(models []*DeferredPurchaseModel) []domain.DeferredPurchase {
	res := make([]domain.DeferredPurchase, 0, len(models))
	for _, m := range models {
		res = append(res, *c.ToEntity(m))
	}

	return res
}

type OutboxEventConverterImpl struct{}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:           entity.ID,
		EventID:      entity.EventID,
		EventType:    string(entity.EventType),
		AggregateKey: entity.AggregateKey,
		Payload:      entity.Payload,
		Status:       string(entity.Status),
		CreatedAt:    entity.CreatedAt,
		ProcessedAt:  entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:           model.ID,
		EventID:      model.EventID,
		EventType:    usecase.OutboxEventType(model.EventType),
		AggregateKey: model.AggregateKey,
		Payload:      model.Payload,
		Status:       usecase.OutboxStatus(model.Status),
		CreatedAt:    model.CreatedAt,
		ProcessedAt:  model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}

	return res
}
