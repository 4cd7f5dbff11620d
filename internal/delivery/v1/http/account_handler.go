package http

import (
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

type AccountHandler struct {
	accountUsecase usecase.AccountUC
	logger         logger.Logger
}

func NewAccountHandler(accountUsecase usecase.AccountUC, logger logger.Logger) *AccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase, logger: logger}
}

// register
//
//	@Summary		Регистрация аккаунта
//	@Description	Создаёт аккаунт, библиотеку, забирает отложенные покупки и создаёт payout-аккаунт
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest		true	"Данные аккаунта"
//	@Success		201		{object}	RegisterResponse	"Аккаунт создан"
//	@Failure		400		{object}	ErrorResponse		"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse		"Email уже занят"
//	@Failure		502		{object}	ErrorResponse		"Не удалось создать payout-аккаунт"
//	@Router			/accounts [post]
func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.accountUsecase.Register(r.Context(), usecase.NewRegisterAccountReq(req.Email, req.Username, req.Name, req.Password))
	if err != nil {
		h.logger.Warnf("registration failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	claimed := res.ClaimedProducts
	if claimed == nil {
		claimed = []int64{}
	}

	WriteSuccess(w, http.StatusCreated, RegisterResponse{
		Account:         toAccountResponse(res.Account),
		Token:           res.Token,
		ClaimedProducts: claimed,
	})
}

// login
//
//	@Summary		Вход
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Email и пароль"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	ErrorResponse	"Неверные учётные данные"
//	@Router			/auth/login [post]
func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.accountUsecase.Login(r.Context(), usecase.NewLoginReq(req.Email, req.Password))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, LoginResponse{AccountID: res.AccountID, Token: res.Token})
}

// library
//
//	@Summary		Библиотека текущего аккаунта
//	@Tags			accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProductListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/me/library [get]
func (h *AccountHandler) library(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFrom(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	products, err := h.accountUsecase.GetLibrary(r.Context(), accountID)
	if err != nil {
		h.logger.Errorf(err, "failed to load library of account %d", accountID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductListResponse(products))
}
