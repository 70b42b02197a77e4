package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	// ComputeAvailableSlots returns the free canonical slots of a doctor on a date,
	// ordered by start time. A day without working hours yields an empty result.
	ComputeAvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]entity.TimeSlot, error)
	GetAvailableSlots(ctx context.Context, doctorID int64, date string) (*dto.AvailableSlotsResponse, error)
	ListTimeSlots(ctx context.Context) *dto.TimeSlotListResponse
}

type availabilityUsecase struct {
	txManager        repository.TxManager
	log              *logrus.Logger
	workingHoursRepo repository.WorkingHoursRepository
	appointmentRepo  repository.AppointmentRepository
	catalog          service.Catalog
	cache            service.AvailabilityCache
}

func NewAvailabilityUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	workingHoursRepo repository.WorkingHoursRepository,
	appointmentRepo repository.AppointmentRepository,
	catalog service.Catalog,
	cache service.AvailabilityCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		txManager:        txManager,
		log:              log,
		workingHoursRepo: workingHoursRepo,
		appointmentRepo:  appointmentRepo,
		catalog:          catalog,
		cache:            cache,
	}
}

func (u *availabilityUsecase) ComputeAvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]entity.TimeSlot, error) {
	return computeAvailableSlots(ctx, u.txManager.Conn(ctx), u.workingHoursRepo, u.appointmentRepo, u.catalog, doctorID, clock.DateOf(date))
}

func computeAvailableSlots(
	ctx context.Context,
	db *gorm.DB,
	workingHoursRepo repository.WorkingHoursRepository,
	appointmentRepo repository.AppointmentRepository,
	catalog service.Catalog,
	doctorID int64,
	date time.Time,
) ([]entity.TimeSlot, error) {
	hours, err := workingHoursRepo.FindByDoctorAndWeekday(ctx, db, doctorID, entity.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("find working hours: %w", err)
	}
	if hours == nil {
		return []entity.TimeSlot{}, nil
	}

	// Containment first; only slots inside the working interval are checked for bookings
	var candidates []entity.TimeSlot
	var candidateIDs []int64
	for _, slot := range catalog.TimeSlots() {
		if hours.Contains(slot) {
			candidates = append(candidates, slot)
			candidateIDs = append(candidateIDs, slot.ID)
		}
	}
	if len(candidates) == 0 {
		return []entity.TimeSlot{}, nil
	}

	cancelledID, err := catalog.StatusID(entity.StatusCancelled)
	if err != nil {
		return nil, err
	}
	bookedIDs, err := appointmentRepo.FindBookedSlotIDs(ctx, db, doctorID, date, candidateIDs, cancelledID)
	if err != nil {
		return nil, fmt.Errorf("find booked slots: %w", err)
	}
	booked := make(map[int64]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}

	available := make([]entity.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		if _, taken := booked[slot.ID]; !taken {
			available = append(available, slot)
		}
	}
	return available, nil
}

func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID int64, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	slots, gen, ok := u.cache.Get(ctx, doctorID, day)
	if !ok {
		slots, err = u.ComputeAvailableSlots(ctx, doctorID, day)
		if err != nil {
			u.log.Warnf("Failed to compute available slots: %+v", err)
			return nil, err
		}
		u.cache.Set(ctx, doctorID, day, gen, slots)
	}

	return &dto.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     day.Format(clock.DateLayout),
		Slots:    converter.TimeSlotsToResponses(slots),
	}, nil
}

func (u *availabilityUsecase) ListTimeSlots(ctx context.Context) *dto.TimeSlotListResponse {
	slots := u.catalog.TimeSlots()
	return &dto.TimeSlotListResponse{
		Slots: converter.TimeSlotsToResponses(slots),
		Total: len(slots),
	}
}
