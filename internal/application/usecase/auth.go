package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
	"trainingplatform/internal/infrastructure/security"
)

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
}

func NewAuthUseCase(ur *repository.UserRepository, h *security.PasswordHasher, tm *security.TokenManager) *AuthUseCase {
	return &AuthUseCase{userRepo: ur, hasher: h, tokenManager: tm}
}

func (uc *AuthUseCase) Register(ctx context.Context, username, email, password string) (string, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
		Role:     "user",
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID.String(), nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, что именно не совпало
		return "", "", errors.New("invalid credentials")
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return uc.tokenManager.Generate(user.ID.String(), user.Role)
}

func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	userIDStr, err := uc.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", errors.New("invalid token subject")
	}

	// Роль перечитывается из базы: токен мог пережить смену прав.
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", errors.New("user no longer exists")
	}

	return uc.tokenManager.Generate(user.ID.String(), user.Role)
}

func (uc *AuthUseCase) ValidateAccess(token string) (string, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}
