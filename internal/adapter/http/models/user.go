package models

import (
	"time"

	"github.com/alvinmalapojr/wallet/internal/domain"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	Username      string          `json:"username"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	RegisteredAt  string          `json:"registeredAt"`
}

func MapUser(user domain.User) UserResponse {
	return UserResponse{
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		AccountNumber: user.AccountNumber,
		Balance:       user.Balance,
		RegisteredAt:  user.RegisteredAt.Format(time.RFC3339),
	}
}

func MapUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, MapUser(user))
	}
	return out
}
