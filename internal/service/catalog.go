package service

import (
	"context"
	"fmt"
	"sort"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/pkg/apperror"

	"gorm.io/gorm"
)

// Catalog holds the canonical time slots and the appointment status table.
// It is loaded once at startup and never changes afterwards.
type Catalog interface {
	// TimeSlots returns the slots ordered by start time
	TimeSlots() []entity.TimeSlot
	Slot(id int64) (entity.TimeSlot, bool)
	// StatusID returns a not_found error for unknown status names
	StatusID(name string) (int, error)
}

type catalog struct {
	slots          []entity.TimeSlot
	slotByID       map[int64]entity.TimeSlot
	statusIDByName map[string]int
}

// LoadCatalog reads the slot and status tables once and validates them.
func LoadCatalog(ctx context.Context, db *gorm.DB, slotRepo repository.TimeSlotRepository, statusRepo repository.AppointmentStatusRepository) (Catalog, error) {
	slots, err := slotRepo.FindAll(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}
	statuses, err := statusRepo.FindAll(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load appointment statuses: %w", err)
	}
	return NewCatalog(slots, statuses)
}

// NewCatalog builds a catalog from rows already in memory.
func NewCatalog(slots []entity.TimeSlot, statuses []entity.AppointmentStatus) (Catalog, error) {
	sorted := make([]entity.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	c := &catalog{
		slots:          sorted,
		slotByID:       make(map[int64]entity.TimeSlot, len(sorted)),
		statusIDByName: make(map[string]int, len(statuses)),
	}

	for i, slot := range sorted {
		if !slot.StartTime.Valid() || !slot.EndTime.Valid() || slot.StartTime >= slot.EndTime {
			return nil, fmt.Errorf("time slot %d has invalid interval %s-%s", slot.ID, slot.StartTime, slot.EndTime)
		}
		if i > 0 && sorted[i-1].Overlaps(slot) {
			return nil, fmt.Errorf("time slots %d and %d overlap", sorted[i-1].ID, slot.ID)
		}
		if _, dup := c.slotByID[slot.ID]; dup {
			return nil, fmt.Errorf("duplicate time slot id %d", slot.ID)
		}
		c.slotByID[slot.ID] = slot
	}

	for _, status := range statuses {
		c.statusIDByName[status.StatusName] = status.ID
	}
	for _, required := range []string{entity.StatusScheduled, entity.StatusCancelled, entity.StatusCompleted} {
		if _, ok := c.statusIDByName[required]; !ok {
			return nil, fmt.Errorf("appointment status %q is missing", required)
		}
	}

	return c, nil
}

func (c *catalog) TimeSlots() []entity.TimeSlot {
	out := make([]entity.TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *catalog) Slot(id int64) (entity.TimeSlot, bool) {
	slot, ok := c.slotByID[id]
	return slot, ok
}

func (c *catalog) StatusID(name string) (int, error) {
	id, ok := c.statusIDByName[name]
	if !ok {
		return 0, apperror.New(apperror.KindNotFound, fmt.Sprintf("appointment status %q not found", name))
	}
	return id, nil
}
