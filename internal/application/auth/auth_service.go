package authservice

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type IAuthService interface {
	GenerateToken(ctx context.Context, address string) (string, error)
	VerifyToken(ctx context.Context, tokenString string) (*domain.Claim, error)
}
