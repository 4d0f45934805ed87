package service

import "github.com/rookgm/foodorder/internal/models"

type TokenService interface {
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
