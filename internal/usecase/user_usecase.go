package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserUsecase interface {
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	// DeactivateUser soft deletes a user. Admins cannot be deactivated and a
	// doctor's profile is deactivated with its account.
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
}

type userUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	cache        service.AvailabilityCache
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewUserUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	cache service.AvailabilityCache,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		txManager:    txManager,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		cache:        cache,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *userUsecase) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAllActive(ctx, u.txManager.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	var doctorID int64

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.RoleID == entity.RoleIDAdmin {
			return ErrCannotDeactivateAdmin
		}

		if _, err := u.userRepo.SetActive(ctx, tx, userID, false); err != nil {
			u.log.Warnf("Failed to deactivate user: %+v", err)
			return fmt.Errorf("deactivate user: %w", err)
		}

		if user.RoleID == entity.RoleIDDoctor {
			doctor, err := u.doctorRepo.FindByUserID(ctx, tx, userID)
			if err != nil {
				u.log.Warnf("Failed to find doctor: %+v", err)
				return fmt.Errorf("find doctor: %w", err)
			}
			if doctor != nil {
				if _, err := u.doctorRepo.SetActive(ctx, tx, doctor.ID, false); err != nil {
					u.log.Warnf("Failed to deactivate doctor: %+v", err)
					return fmt.Errorf("deactivate doctor: %w", err)
				}
				doctorID = doctor.ID
			}
		}

		return u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionUserDeactivate, "user", userID.String(),
			map[string]any{"is_active": user.IsActive},
			map[string]any{"is_active": false})
	})
	if err != nil {
		return err
	}

	if doctorID != 0 {
		u.cache.InvalidateDoctor(ctx, doctorID)
	}
	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke user tokens: %+v", err)
	}

	u.log.WithField("user_id", userID.String()).Info("User deactivated")
	return nil
}
