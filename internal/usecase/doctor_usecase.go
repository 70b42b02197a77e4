package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/clock"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	// DeactivateDoctor flags the doctor and its user inactive. With cancelFuture,
	// scheduled appointments from today on are cancelled in the same transaction.
	DeactivateDoctor(ctx context.Context, doctorID int64, cancelFuture bool) (*dto.DeactivateDoctorResponse, error)
}

type doctorUsecase struct {
	txManager       repository.TxManager
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	hoursRepo       repository.WorkingHoursRepository
	appointmentRepo repository.AppointmentRepository
	catalog         service.Catalog
	cache           service.AvailabilityCache
	tokenStore      service.TokenStore
	auditService    service.AuditService
	clock           clock.Clock
}

func NewDoctorUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	hoursRepo repository.WorkingHoursRepository,
	appointmentRepo repository.AppointmentRepository,
	catalog service.Catalog,
	cache service.AvailabilityCache,
	tokenStore service.TokenStore,
	auditService service.AuditService,
	clk clock.Clock,
) DoctorUsecase {
	return &doctorUsecase{
		txManager:       txManager,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		hoursRepo:       hoursRepo,
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		cache:           cache,
		tokenStore:      tokenStore,
		auditService:    auditService,
		clock:           clk,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAllActive(ctx, u.txManager.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.ConsultationFee.IsNegative() {
		return nil, ErrNegativeFee
	}
	hours, err := parseWorkingHours(req.WorkingHours)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	var doctor *entity.Doctor
	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		user := &entity.User{
			Email:     req.Email,
			Password:  string(hashedPassword),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			RoleID:    entity.RoleIDDoctor,
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

		doctor = &entity.Doctor{
			UserID:          user.ID,
			Expertise:       req.Expertise,
			ConsultationFee: req.ConsultationFee,
			IsActive:        true,
		}
		if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
			u.log.Warnf("Failed to create doctor: %+v", err)
			return fmt.Errorf("create doctor: %w", err)
		}
		doctor.User = *user

		for i := range hours {
			hours[i].DoctorID = doctor.ID
		}
		if err := u.hoursRepo.CreateBatch(ctx, tx, hours); err != nil {
			u.log.Warnf("Failed to create working hours: %+v", err)
			return fmt.Errorf("create working hours: %w", err)
		}

		return u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID, map[string]any{
			"email":            user.Email,
			"expertise":        doctor.Expertise,
			"consultation_fee": doctor.ConsultationFee.String(),
			"working_hours":    converter.WorkingHoursToRows(hours),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"doctor_id": doctor.ID, "expertise": doctor.Expertise}).Info("Doctor created")
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) DeactivateDoctor(ctx context.Context, doctorID int64, cancelFuture bool) (*dto.DeactivateDoctorResponse, error) {
	var doctor *entity.Doctor
	var cancelled int64

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		found, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return fmt.Errorf("find doctor: %w", err)
		}
		if found == nil {
			return ErrDoctorNotFound
		}
		doctor = found

		if _, err := u.doctorRepo.SetActive(ctx, tx, doctorID, false); err != nil {
			u.log.Warnf("Failed to deactivate doctor: %+v", err)
			return fmt.Errorf("deactivate doctor: %w", err)
		}
		if _, err := u.userRepo.SetActive(ctx, tx, found.UserID, false); err != nil {
			u.log.Warnf("Failed to deactivate doctor user: %+v", err)
			return fmt.Errorf("deactivate doctor user: %w", err)
		}

		if cancelFuture {
			scheduledID, err := u.catalog.StatusID(entity.StatusScheduled)
			if err != nil {
				return err
			}
			cancelledID, err := u.catalog.StatusID(entity.StatusCancelled)
			if err != nil {
				return err
			}
			cancelled, err = u.appointmentRepo.UpdateStatusByDoctorFrom(ctx, tx, doctorID, u.clock.Today(), scheduledID, cancelledID)
			if err != nil {
				u.log.Warnf("Failed to cancel future appointments: %+v", err)
				return fmt.Errorf("cancel future appointments: %w", err)
			}
		}

		return u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionDoctorDeactivate, "doctor", doctorID,
			map[string]any{"is_active": found.IsActive},
			map[string]any{"is_active": false, "cancelled_appointments": cancelled})
	})
	if err != nil {
		return nil, err
	}

	u.cache.InvalidateDoctor(ctx, doctorID)
	if err := u.tokenStore.RevokeAll(ctx, doctor.UserID); err != nil {
		u.log.Warnf("Failed to revoke doctor tokens: %+v", err)
	}

	u.log.WithFields(logrus.Fields{
		"doctor_id":              doctorID,
		"cancelled_appointments": cancelled,
	}).Info("Doctor deactivated")

	return &dto.DeactivateDoctorResponse{
		DoctorID:              doctorID,
		CancelledAppointments: cancelled,
	}, nil
}
