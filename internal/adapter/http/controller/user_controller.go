package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alvinmalapojr/wallet/internal/adapter/http/models"
	"github.com/alvinmalapojr/wallet/internal/commons"
	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/alvinmalapojr/wallet/internal/usecase/services"
)

type UserService interface {
	Register(ctx context.Context, input services.RegistrationInput) domain.TransactionResult
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, accountNumber string) (domain.User, error)
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(handler http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(handler)
		}
		return handler
	}

	mux.Handle("/api/wallet/register", wrap(c.register))
	mux.Handle("/api/wallet/users", wrap(c.users))
	mux.Handle("/api/wallet/users/{accountNumber}", wrap(c.userByAccount))
	mux.Handle("/api/wallet/transactions", wrap(c.transactions))
	mux.Handle("/api/wallet/transactions/{accountNumber}", wrap(c.transactionsByAccount))
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[string]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[string]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[string]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	result := c.service.Register(r.Context(), services.RegistrationInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})

	var (
		status   int
		response commons.Response[string]
	)
	switch result {
	case domain.ResultSuccess:
		status = http.StatusOK
		response = commons.SuccessResponse("Registration Successful", string(result))
	case domain.ResultUsernameExist:
		status = http.StatusConflict
		response = commons.ErrorResponse[string]("Username already exist")
	default:
		status = http.StatusBadRequest
		response = commons.ErrorResponse[string]("Registration Failed")
	}

	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func (c *UserController) users(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !requireGet(w, r, start) {
		return
	}

	users, err := c.service.GetUsers(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.UserResponse]("failed to list users", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response := commons.SuccessResponse("users fetched successfully", models.MapUsers(users))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) userByAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !requireGet(w, r, start) {
		return
	}

	accountNumber := r.PathValue("accountNumber")
	user, err := c.service.GetUser(r.Context(), accountNumber)
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse](missingAccountMessage(err))
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response := commons.SuccessResponse("user fetched successfully", models.MapUser(user))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) transactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !requireGet(w, r, start) {
		return
	}

	transactions, err := c.service.GetTransactions(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.TransactionResponse]("failed to list transactions", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response := commons.SuccessResponse("transactions fetched successfully", models.MapTransactions(transactions))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) transactionsByAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if !requireGet(w, r, start) {
		return
	}

	accountNumber := r.PathValue("accountNumber")
	transactions, err := c.service.GetTransactionsByAccount(r.Context(), accountNumber)
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.TransactionResponse](missingAccountMessage(err))
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response := commons.SuccessResponse("transactions fetched successfully", models.MapTransactions(transactions))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func requireGet(w http.ResponseWriter, r *http.Request, start time.Time) bool {
	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[string]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return false
	}
	return true
}

func missingAccountMessage(err error) string {
	if errors.Is(err, commons.ErrRecordNotFound) {
		return "Account Number does not exist"
	}
	return err.Error()
}
