package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProductMetadata — текстовые поля формы товара.
type ProductMetadata struct {
	Name        string
	Description string
	Price       int64
	ContentURL  *string
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// badRequestErrs отдаются клиенту как есть со статусом 400.
var badRequestErrs = []error{
	e.ErrStatusBadRequest,
	e.ErrExpectedMultipart,
	e.ErrMissingFields,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrProductNameRequired,
	e.ErrPriceMustBePositive,
	e.ErrInvalidContentURL,
	e.ErrEmailRequired,
	e.ErrUsernameRequired,
	e.ErrPasswordTooShort,
	e.ErrInvalidPayload,
	e.ErrSignatureMismatch,
}

func ToHTTPResponse(err error) (int, string) {
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	switch {
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, e.ErrUnauthorized.Error()
	case errors.Is(err, e.ErrInvalidCredentials):
		return http.StatusUnauthorized, e.ErrInvalidCredentials.Error()
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, e.ErrForbidden.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrAccountNotFound):
		return http.StatusNotFound, e.ErrAccountNotFound.Error()
	case errors.Is(err, e.ErrLibraryNotFound):
		return http.StatusNotFound, e.ErrLibraryNotFound.Error()
	case errors.Is(err, e.ErrAccountAlreadyExists):
		return http.StatusConflict, e.ErrAccountAlreadyExists.Error()
	case errors.Is(err, e.ErrSlugTaken):
		return http.StatusConflict, e.ErrSlugTaken.Error()
	case errors.Is(err, e.ErrProductInactive):
		return http.StatusConflict, e.ErrProductInactive.Error()
	case errors.Is(err, e.ErrSellerNotOnboarded):
		return http.StatusConflict, e.ErrSellerNotOnboarded.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrPayoutProvisioning):
		return http.StatusBadGateway, e.ErrPayoutProvisioning.Error()
	case errors.Is(err, e.ErrProcessorUnavailable):
		return http.StatusServiceUnavailable, e.ErrProcessorUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst, неизвестные поля считаются ошибкой.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBodySize = 1 << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parsePriceToCents converts a string like "599.99" or "600" to int64 cents.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit (e.g. 10^9 dollars)
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.Wrap("price is empty", e.ErrMissingFields)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	// Reject negative
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	// Check decimal places
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents < 1 {
		return 0, e.ErrPriceMustBePositive
	}

	return cents, nil
}

// parseOptionalPrice разбирает цену из JSON-строки, пустой указатель означает «не менять».
func parseOptionalPrice(s *string) (*int64, error) {
	if s == nil {
		return nil, nil
	}

	cents, err := parsePriceToCents(*s)
	if err != nil {
		return nil, err
	}

	return &cents, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

func parseProductForm(r *http.Request) (*ProductMetadata, error) {
	name := r.FormValue("name")
	priceStr := r.FormValue("price")

	if strings.TrimSpace(name) == "" || priceStr == "" {
		return nil, e.Wrap(fmt.Sprintf("name: %s, price: %s", name, priceStr), e.ErrMissingFields)
	}

	priceCents, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	var contentURL *string
	if v := strings.TrimSpace(r.FormValue("content_url")); v != "" {
		contentURL = &v
	}

	return &ProductMetadata{
		Name:        name,
		Description: r.FormValue("description"),
		Price:       priceCents,
		ContentURL:  contentURL,
	}, nil
}

// parseCover читает необязательную обложку товара. Отсутствие файла не ошибка.
func parseCover(form *multipart.Form, maxSize int64) (*usecase.ProductImage, error) {
	if form == nil {
		return nil, nil
	}

	files := form.File["cover"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, e.Wrap("only one cover is allowed", e.ErrStatusBadRequest)
	}

	data, mimeType, err := readFile(files[0], maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), files[0].Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// parsePagination читает limit и offset из query, нечисловые значения дают 400.
func parsePagination(r *http.Request) (*usecase.ListProductsReq, error) {
	req := &usecase.ListProductsReq{}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return nil, e.Wrap("limit", e.ErrStatusBadRequest)
		}
		req.Limit = limit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return nil, e.Wrap("offset", e.ErrStatusBadRequest)
		}
		req.Offset = offset
	}

	return req, nil
}
