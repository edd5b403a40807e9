package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Statement-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
	"github.com/ndewijer/Broker-Statement-Importer/internal/validation"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountService  *service.AccountService
	activityService *service.ActivityService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependencies.
func NewAccountHandler(accountService *service.AccountService, activityService *service.ActivityService) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		activityService: activityService,
	}
}

// Accounts handles GET requests to list all accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccounts(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET requests to retrieve a single account.
//
// Endpoint: GET /api/account/{uuid}
// Response: 200 OK with Account
// Error: 400 Bad Request if account ID is invalid (validated by middleware)
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccount.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST requests to create an account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest (name, broker, currency)
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAccount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateAccount.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// Activities handles GET requests for one page of an account's activity
// history, newest first.
//
// Endpoint: GET /api/account/{uuid}/activity?page=0&perPage=50
// Response: 200 OK with ActivityPage
// Error: 400 Bad Request if account ID or paging parameters are invalid
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Activities(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	params, err := request.ParseActivityPage(r.URL.Query().Get("page"), r.URL.Query().Get("perPage"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid paging parameters", err.Error())
		return
	}

	page, err := h.activityService.GetActivities(r.Context(), accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveActivities.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}
