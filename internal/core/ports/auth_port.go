package ports

import "github.com/sm8ta/webike_review_microservice/internal/core/domain"

type TokenService interface {
	IssueToken(user *domain.User) (*domain.Token, error)
	VerifyToken(token string) (*domain.TokenPayload, error)
}
