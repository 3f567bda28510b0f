package services

import (
	"errors"
	"strings"
	"time"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/auth"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/google/uuid"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
}

type authService struct {
	userRepo  repositories.UserRepository
	wallets   WalletService
	referrals ReferralService
	emails    *EmailService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	wallets WalletService,
	referrals ReferralService,
	emails *EmailService,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		wallets:   wallets,
		referrals: referrals,
		emails:    emails,
	}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, appErrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		Document:     req.Document,
		Phone:        req.Phone,
		ReferralCode: newReferralCode(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.wallets.CreateForUser(user.ID); err != nil {
		logger.Error("failed to bootstrap wallet", "user_id", user.ID, "error", err)
	}

	if req.ReferralCode != "" {
		if err := s.referrals.RegisterSignup(req.ReferralCode, user.ID); err != nil {
			logger.Error("failed to register referral", "user_id", user.ID, "error", err)
		}
	}

	return s.issueTokens(user)
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(refreshToken)
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	// Rotate: the old token is consumed.
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	return s.userRepo.DeleteRefreshToken(refreshToken)
}

// RequestPasswordReset always reports success to the caller so the endpoint
// cannot be used to probe which emails exist.
func (s *authService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return err
	}

	exp := time.Now().Add(resetTokenTTL)
	user.ResetToken = uuid.NewString()
	user.ResetTokenExp = &exp

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(user.Email, user.ResetToken); err != nil {
			logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
		}
	}

	return nil
}

func (s *authService) ResetPassword(token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return appErrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return appErrors.ErrInvalidToken
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return appErrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil

	return s.userRepo.Update(user)
}

func (s *authService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		User: &dto.UserResponse{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Role:         string(user.Role),
			ReferralCode: user.ReferralCode,
			PixKey:       user.PixKey,
		},
	}, nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
