package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
)

// TokenIssuer signs access tokens for a user id
type TokenIssuer interface {
	Issue(userID uint64) (string, time.Time, error)
}

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.AccessToken, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Authenticate checks the password against the stored bcrypt hash. Unknown
// users and wrong passwords return the same error.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.AccessToken, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, err
	}

	return &models.AccessToken{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
