package e

import (
	"errors"
	"fmt"
)

var (

	// Ошибки уведомлений платёжного провайдера
	ErrInvalidPayload    = errors.New("invalid webhook payload")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")

	// Ошибки внешних вызовов
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
	ErrPayoutProvisioning   = errors.New("payout account provisioning failed")
	ErrMailDelivery         = errors.New("mail delivery failed")

	// 404 Not Found
	ErrProductNotFound = errors.New("product not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrLibraryNotFound = errors.New("library not found")

	// 409 Conflict
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrSlugTaken            = errors.New("product slug already taken")
	ErrProductInactive      = errors.New("product is not available")
	ErrSellerNotOnboarded   = errors.New("seller has no payout account")

	// 401 / 403
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	// 400 Bad Request
	ErrStatusBadRequest     = errors.New("bad request")
	ErrExpectedMultipart    = errors.New("expected multipart/form-data")
	ErrMissingFields        = errors.New("missing required fields")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrPriceMustBePositive  = errors.New("price must be positive")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrPricePrecision       = errors.New("price must have at most 2 decimal places")
	ErrInvalidContentURL    = errors.New("invalid content url")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrEmailRequired        = errors.New("valid email is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")

	// 500
	ErrInternalServerError = errors.New("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
