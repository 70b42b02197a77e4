package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	userRepo     repository.UserRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
}

func NewAuthUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		txManager:    txManager,
		log:          log,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	var user *entity.User
	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		user = &entity.User{
			Email:     req.Email,
			Password:  string(hashedPassword),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			RoleID:    entity.RoleIDPatient,
			IsActive:  true,
		}
		if err := u.userRepo.Create(ctx, tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isForeignKeyError(err, "role") {
				return ErrRoleNotFound
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return fmt.Errorf("create user: %w", err)
		}
		user.Role = entity.Role{ID: entity.RoleIDPatient, RoleName: entity.RolePatient}

		patient := &entity.Patient{
			UserID: user.ID,
			Phone:  req.Phone,
		}
		if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
			u.log.Warnf("Failed to create patient: %+v", err)
			return fmt.Errorf("create patient: %w", err)
		}
		user.Patient = patient

		return u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(),
			map[string]any{"email": user.Email, "role": entity.RolePatient, "patient_id": patient.ID})
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Find user by email (read-only, no transaction needed)
	user, err := u.userRepo.FindByEmail(ctx, u.txManager.Conn(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error {
	if err := u.tokenStore.Delete(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.Parse(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use
	if err := u.tokenStore.Delete(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// The role may have changed and the account may be gone since issue
	user, err := u.userRepo.FindByID(ctx, u.txManager.Conn(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.AccessToken, userID, accessTokenID, u.jwtService.Expiry(jwt.AccessToken)); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, userID, refreshTokenID, u.jwtService.Expiry(jwt.RefreshToken)); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.Expiry(jwt.AccessToken).Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.txManager.Conn(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}
