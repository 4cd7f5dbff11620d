package http

import (
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	maxCoverSize   int64
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, maxCoverSize int64) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger, maxCoverSize: maxCoverSize}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт товар текущего автора, обложка необязательна
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name		formData	string			true	"Название товара"
//	@Param			description	formData	string			false	"Описание"
//	@Param			price		formData	string			true	"Цена, например 9.99"
//	@Param			content_url	formData	string			false	"Ссылка на контент"
//	@Param			cover		formData	file			false	"Обложка (jpeg, png, webp)"
//	@Success		201			{object}	ProductResponse	"Товар создан"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		413			{object}	ErrorResponse	"Слишком большой файл"
//	@Failure		415			{object}	ErrorResponse	"Неподдерживаемый формат обложки"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	ownerID, ok := accountIDFrom(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxCoverSize+maxMemory)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	meta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	cover, err := parseCover(r.MultipartForm, p.maxCoverSize)
	if err != nil {
		p.logger.Warnf("cover rejected: %s", err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(),
		usecase.NewCreateProductReq(ownerID, meta.Name, meta.Description, meta.Price, meta.ContentURL, cover))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Изменение товара
//	@Description	Частичное обновление товара владельцем. is_active=false снимает товар с продажи.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			slug	path		string					true	"Slug товара"
//	@Param			request	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	ProductResponse
//	@Failure		403		{object}	ErrorResponse	"Товар принадлежит другому автору"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{slug} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := accountIDFrom(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	price, err := parseOptionalPrice(req.Price)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		OwnerID:     ownerID,
		Slug:        chi.URLParam(r, "slug"),
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ContentURL:  req.ContentURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		p.logger.Warnf("update of %s failed: %s", chi.URLParam(r, "slug"), err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// getProduct
//
//	@Summary		Карточка товара
//	@Tags			products
//	@Produce		json
//	@Param			slug	path		string	true	"Slug товара"
//	@Success		200		{object}	ProductResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{slug} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productUsecase.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listProducts
//
//	@Summary		Витрина
//	@Description	Активные товары, новые первыми
//	@Tags			products
//	@Produce		json
//	@Param			limit	query		int	false	"Размер страницы (по умолчанию 20, максимум 100)"
//	@Param			offset	query		int	false	"Смещение"
//	@Success		200		{object}	ProductListResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parsePagination(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Errorf(err, "failed to list products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductListResponse(products))
}

// listOwnProducts
//
//	@Summary		Товары текущего автора
//	@Tags			products
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProductListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/me/products [get]
func (p *ProductHandler) listOwnProducts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := accountIDFrom(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	products, err := p.productUsecase.ListOwnProducts(r.Context(), ownerID)
	if err != nil {
		p.logger.Errorf(err, "failed to list products of %d", ownerID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductListResponse(products))
}
