package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type WorkingHoursUsecase interface {
	GetWorkingHours(ctx context.Context, doctorID int64) (*dto.WorkingHoursResponse, error)
	// ReplaceWorkingHours swaps the doctor's whole weekly schedule atomically
	ReplaceWorkingHours(ctx context.Context, doctorID int64, req *dto.ReplaceWorkingHoursRequest) (*dto.WorkingHoursResponse, error)
}

type workingHoursUsecase struct {
	txManager        repository.TxManager
	log              *logrus.Logger
	doctorRepo       repository.DoctorRepository
	workingHoursRepo repository.WorkingHoursRepository
	locker           service.KeyLocker
	cache            service.AvailabilityCache
	auditService     service.AuditService
	guard            accessGuard
}

func NewWorkingHoursUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	locker service.KeyLocker,
	cache service.AvailabilityCache,
	auditService service.AuditService,
) WorkingHoursUsecase {
	return &workingHoursUsecase{
		txManager:        txManager,
		log:              log,
		doctorRepo:       doctorRepo,
		workingHoursRepo: workingHoursRepo,
		locker:           locker,
		cache:            cache,
		auditService:     auditService,
		guard:            accessGuard{patientRepo: patientRepo, doctorRepo: doctorRepo},
	}
}

func (u *workingHoursUsecase) GetWorkingHours(ctx context.Context, doctorID int64) (*dto.WorkingHoursResponse, error) {
	db := u.txManager.Conn(ctx)

	doctor, err := u.doctorRepo.FindByID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	hours, err := u.workingHoursRepo.FindByDoctorID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours: %+v", err)
		return nil, err
	}

	return &dto.WorkingHoursResponse{
		DoctorID:     doctorID,
		WorkingHours: converter.WorkingHoursToRows(hours),
	}, nil
}

func (u *workingHoursUsecase) ReplaceWorkingHours(ctx context.Context, doctorID int64, req *dto.ReplaceWorkingHoursRequest) (*dto.WorkingHoursResponse, error) {
	hours, err := parseWorkingHours(req.WorkingHours)
	if err != nil {
		return nil, err
	}
	if err := u.guard.checkDoctor(ctx, u.txManager.Conn(ctx), doctorID); err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("working_hours:%d", doctorID)
	err = u.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		return u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
			return u.replace(ctx, tx, doctorID, hours)
		})
	})
	if err != nil {
		return nil, err
	}

	u.cache.InvalidateDoctor(ctx, doctorID)
	u.log.WithFields(logrus.Fields{
		"doctor_id": doctorID,
		"days":      len(hours),
	}).Info("Working hours replaced")

	return &dto.WorkingHoursResponse{
		DoctorID:     doctorID,
		WorkingHours: converter.WorkingHoursToRows(hours),
	}, nil
}

func (u *workingHoursUsecase) replace(ctx context.Context, tx *gorm.DB, doctorID int64, hours []entity.WorkingHours) error {
	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return fmt.Errorf("find doctor: %w", err)
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	previous, err := u.workingHoursRepo.FindByDoctorID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours: %+v", err)
		return fmt.Errorf("find working hours: %w", err)
	}

	if _, err := u.workingHoursRepo.DeleteByDoctorID(ctx, tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete working hours: %+v", err)
		return fmt.Errorf("delete working hours: %w", err)
	}

	for i := range hours {
		hours[i].DoctorID = doctorID
	}
	if err := u.workingHoursRepo.CreateBatch(ctx, tx, hours); err != nil {
		u.log.Warnf("Failed to create working hours: %+v", err)
		return fmt.Errorf("create working hours: %w", err)
	}

	return u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionWorkingHoursReplace,
		"doctor", doctorID, converter.WorkingHoursToRows(previous), converter.WorkingHoursToRows(hours))
}

// parseWorkingHours validates rows and converts them to entities ordered Monday first.
// Each weekday may appear once and start must precede end.
func parseWorkingHours(rows []dto.WorkingHourRow) ([]entity.WorkingHours, error) {
	byDay := make(map[entity.Weekday]entity.WorkingHours, len(rows))

	for _, row := range rows {
		day, err := entity.ParseWeekday(row.DayOfWeek)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalidInput, err.Error())
		}
		if _, dup := byDay[day]; dup {
			return nil, apperror.New(apperror.KindInvalidInput, fmt.Sprintf("%s is listed more than once", day))
		}

		start, err := entity.ParseTimeOfDay(row.StartTime)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalidInput, fmt.Sprintf("%s start: %v", day, err))
		}
		end, err := entity.ParseTimeOfDay(row.EndTime)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalidInput, fmt.Sprintf("%s end: %v", day, err))
		}
		if start >= end {
			return nil, apperror.New(apperror.KindInvalidInput, fmt.Sprintf("%s start %s must be before end %s", day, start, end))
		}

		byDay[day] = entity.WorkingHours{DayOfWeek: day, StartTime: start, EndTime: end}
	}

	hours := make([]entity.WorkingHours, 0, len(byDay))
	for _, day := range entity.Weekdays {
		if h, ok := byDay[day]; ok {
			hours = append(hours, h)
		}
	}
	return hours, nil
}
