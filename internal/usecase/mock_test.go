package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/clock"
	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// -- In-memory store --

const (
	testScheduledID = 1
	testCancelledID = 2
	testCompletedID = 3
)

var testStatusNames = map[int]string{
	testScheduledID: entity.StatusScheduled,
	testCancelledID: entity.StatusCancelled,
	testCompletedID: entity.StatusCompleted,
}

// testSlots mirrors the seeded catalog: 09:00-12:00 and 13:00-15:00 in 30 minute steps
func testSlots() []entity.TimeSlot {
	var slots []entity.TimeSlot
	id := int64(1)
	for _, block := range [][2]int{{9, 12}, {13, 15}} {
		for m := block[0] * 60; m < block[1]*60; m += 30 {
			slots = append(slots, entity.TimeSlot{ID: id, StartTime: entity.TimeOfDay(m), EndTime: entity.TimeOfDay(m + 30)})
			id++
		}
	}
	return slots
}

func testCatalog(t *testing.T) service.Catalog {
	t.Helper()
	var statuses []entity.AppointmentStatus
	for id, name := range testStatusNames {
		statuses = append(statuses, entity.AppointmentStatus{ID: id, StatusName: name})
	}
	c, err := service.NewCatalog(testSlots(), statuses)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]entity.User
	doctors      map[int64]entity.Doctor
	patients     map[int64]entity.Patient
	hours        []entity.WorkingHours
	appointments map[int64]entity.Appointment
	nextID       int64

	slots map[int64]entity.TimeSlot

	// journals holds the undo steps of each open transaction, keyed by its handle
	journals map[*gorm.DB][]func()

	// beforeCreateAppointment runs right before an insert, outside the store lock
	beforeCreateAppointment func()
	// duringFindBooked runs inside FindBookedSlotIDs after the rows were read, outside the store lock
	duringFindBooked func()
	// withoutUniqueIndexes turns off the partial unique index emulation in Create
	withoutUniqueIndexes bool
	failCreateBatch      error
	findBookedCalls      int
}

func newMemStore() *memStore {
	s := &memStore{
		users:        make(map[uuid.UUID]entity.User),
		doctors:      make(map[int64]entity.Doctor),
		patients:     make(map[int64]entity.Patient),
		appointments: make(map[int64]entity.Appointment),
		slots:        make(map[int64]entity.TimeSlot),
		journals:     make(map[*gorm.DB][]func()),
	}
	for _, slot := range testSlots() {
		s.slots[slot.ID] = slot
	}
	return s
}

// record appends an undo step to the transaction behind db; caller holds mu.
// Writes through a nil handle are autocommitted.
func (s *memStore) record(db *gorm.DB, undo func()) {
	if journal, ok := s.journals[db]; ok {
		s.journals[db] = append(journal, undo)
	}
}

func (s *memStore) begin(tx *gorm.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals[tx] = nil
}

// finish closes the transaction, replaying its undo steps newest first on rollback
func (s *memStore) finish(tx *gorm.DB, rollback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal := s.journals[tx]
	delete(s.journals, tx)
	if !rollback {
		return
	}
	for i := len(journal) - 1; i >= 0; i-- {
		journal[i]()
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(roleID int, email string, active bool) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := entity.User{ID: uuid.New(), RoleID: roleID, Email: email, FirstName: "Test", LastName: email, IsActive: active}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addDoctor(active, userActive bool) entity.Doctor {
	u := s.addUser(entity.RoleIDDoctor, uuid.NewString()+"@clinic.test", userActive)
	s.mu.Lock()
	defer s.mu.Unlock()
	d := entity.Doctor{ID: s.id(), UserID: u.ID, Expertise: "Cardiology", IsActive: active}
	s.doctors[d.ID] = d
	return d
}

func (s *memStore) addPatient(userActive bool) entity.Patient {
	u := s.addUser(entity.RoleIDPatient, uuid.NewString()+"@mail.test", userActive)
	s.mu.Lock()
	defer s.mu.Unlock()
	p := entity.Patient{ID: s.id(), UserID: u.ID}
	s.patients[p.ID] = p
	return p
}

func (s *memStore) addHours(doctorID int64, day entity.Weekday, start, end entity.TimeOfDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours = append(s.hours, entity.WorkingHours{ID: s.id(), DoctorID: doctorID, DayOfWeek: day, StartTime: start, EndTime: end})
}

func (s *memStore) addAppointment(patientID, doctorID, slotID int64, date time.Time, statusID int) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := entity.Appointment{ID: s.id(), PatientID: patientID, DoctorID: doctorID, SlotID: slotID, AppointmentDate: date, StatusID: statusID}
	s.appointments[a.ID] = a
	return a
}

func (s *memStore) appointmentCount(filter func(entity.Appointment) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.appointments {
		if filter(a) {
			n++
		}
	}
	return n
}

// withRelations fills what the gorm preloads would; caller holds mu
func (s *memStore) withRelations(a entity.Appointment) entity.Appointment {
	a.Slot = s.slots[a.SlotID]
	a.Status = entity.AppointmentStatus{ID: a.StatusID, StatusName: testStatusNames[a.StatusID]}
	if d, ok := s.doctors[a.DoctorID]; ok {
		d.User = s.users[d.UserID]
		a.Doctor = d
	}
	if p, ok := s.patients[a.PatientID]; ok {
		p.User = s.users[p.UserID]
		a.Patient = p
	}
	return a
}

// -- Transaction manager --

// memTxManager runs transactions concurrently. Each write takes the store lock
// for that statement only and is visible to other transactions at once, so
// check-then-insert races are as open as against a real database. Rollback
// undoes only the failing transaction's own writes.
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (m *memTxManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := &gorm.DB{}
	m.store.begin(tx)

	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	m.store.finish(tx, err != nil)
	return err
}

// -- Repositories --

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

type memAppointmentRepo struct{ s *memStore }

func (r *memAppointmentRepo) Create(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	if hook := r.s.beforeCreateAppointment; hook != nil {
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.withoutUniqueIndexes {
		for _, other := range r.s.appointments {
			if other.StatusID == testCancelledID || other.SlotID != a.SlotID || !other.AppointmentDate.Equal(a.AppointmentDate) {
				continue
			}
			if other.DoctorID == a.DoctorID {
				return uniqueViolation(constraintDoctorSlot)
			}
			if other.PatientID == a.PatientID {
				return uniqueViolation(constraintPatientSlot)
			}
		}
	}
	a.ID = r.s.id()
	a.CreatedAt = time.Now()
	r.s.appointments[a.ID] = *a
	id := a.ID
	r.s.record(db, func() { delete(r.s.appointments, id) })
	return nil
}

func (r *memAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	a = r.s.withRelations(a)
	return &a, nil
}

func (r *memAppointmentRepo) findActive(match func(entity.Appointment) bool, date time.Time, slotID int64, cancelledStatusID int) *entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.StatusID != cancelledStatusID && a.SlotID == slotID && a.AppointmentDate.Equal(date) && match(a) {
			found := a
			return &found
		}
	}
	return nil
}

func (r *memAppointmentRepo) FindActiveByDoctorSlot(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error) {
	return r.findActive(func(a entity.Appointment) bool { return a.DoctorID == doctorID }, date, slotID, cancelledStatusID), nil
}

func (r *memAppointmentRepo) FindActiveByPatientSlot(ctx context.Context, db *gorm.DB, patientID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error) {
	return r.findActive(func(a entity.Appointment) bool { return a.PatientID == patientID }, date, slotID, cancelledStatusID), nil
}

func (r *memAppointmentRepo) FindBookedSlotIDs(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotIDs []int64, cancelledStatusID int) ([]int64, error) {
	r.s.mu.Lock()
	r.s.findBookedCalls++
	wanted := make(map[int64]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}
	var ids []int64
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.StatusID != cancelledStatusID && a.AppointmentDate.Equal(date) && wanted[a.SlotID] {
			ids = append(ids, a.SlotID)
		}
	}
	hook := r.s.duringFindBooked
	r.s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return ids, nil
}

func (r *memAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, statusID int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return 0, nil
	}
	prev := a
	a.StatusID = statusID
	r.s.appointments[id] = a
	r.s.record(db, func() { r.s.appointments[id] = prev })
	return 1, nil
}

func (r *memAppointmentRepo) UpdateStatusByDoctorFrom(ctx context.Context, db *gorm.DB, doctorID int64, from time.Time, fromStatusID, toStatusID int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.StatusID == fromStatusID && !a.AppointmentDate.Before(from) {
			prev := a
			a.StatusID = toStatusID
			r.s.appointments[id] = a
			r.s.record(db, func() { r.s.appointments[prev.ID] = prev })
			n++
		}
	}
	return n, nil
}

func (r *memAppointmentRepo) list(match func(entity.Appointment) bool) []entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if match(a) {
			out = append(out, r.s.withRelations(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].Slot.StartTime > out[j].Slot.StartTime
	})
	return out
}

func (r *memAppointmentRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.Appointment, error) {
	return r.list(func(a entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *memAppointmentRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.Appointment, error) {
	return r.list(func(a entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *memAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error) {
	return r.list(func(entity.Appointment) bool { return true }), nil
}

type memDoctorRepo struct{ s *memStore }

func (r *memDoctorRepo) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor.ID = r.s.id()
	stored := *doctor
	stored.User = entity.User{}
	r.s.doctors[doctor.ID] = stored
	r.s.record(db, func() { delete(r.s.doctors, stored.ID) })
	return nil
}

func (r *memDoctorRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	d.User = r.s.users[d.UserID]
	return &d, nil
}

func (r *memDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.UserID == userID {
			d.User = r.s.users[d.UserID]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *memDoctorRepo) FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.s.doctors {
		u := r.s.users[d.UserID]
		if d.IsActive && u.IsActive {
			d.User = u
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDoctorRepo) SetActive(ctx context.Context, db *gorm.DB, id int64, active bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return 0, nil
	}
	prev := d
	d.IsActive = active
	r.s.doctors[id] = d
	r.s.record(db, func() { r.s.doctors[id] = prev })
	return 1, nil
}

type memPatientRepo struct{ s *memStore }

func (r *memPatientRepo) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	patient.ID = r.s.id()
	stored := *patient
	stored.User = entity.User{}
	r.s.patients[patient.ID] = stored
	r.s.record(db, func() { delete(r.s.patients, stored.ID) })
	return nil
}

func (r *memPatientRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, nil
	}
	p.User = r.s.users[p.UserID]
	return &p, nil
}

func (r *memPatientRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.patients {
		if p.UserID == userID {
			p.User = r.s.users[p.UserID]
			return &p, nil
		}
	}
	return nil, nil
}

type memWorkingHoursRepo struct{ s *memStore }

func (r *memWorkingHoursRepo) FindByDoctorAndWeekday(ctx context.Context, db *gorm.DB, doctorID int64, day entity.Weekday) (*entity.WorkingHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.hours {
		if h.DoctorID == doctorID && h.DayOfWeek == day {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memWorkingHoursRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.WorkingHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.WorkingHours
	for _, h := range r.s.hours {
		if h.DoctorID == doctorID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek.Index() < out[j].DayOfWeek.Index() })
	return out, nil
}

func (r *memWorkingHoursRepo) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.hours[:0:0]
	var removed []entity.WorkingHours
	for _, h := range r.s.hours {
		if h.DoctorID == doctorID {
			removed = append(removed, h)
			continue
		}
		kept = append(kept, h)
	}
	r.s.hours = kept
	r.s.record(db, func() { r.s.hours = append(r.s.hours, removed...) })
	return int64(len(removed)), nil
}

func (r *memWorkingHoursRepo) CreateBatch(ctx context.Context, db *gorm.DB, hours []entity.WorkingHours) error {
	if r.s.failCreateBatch != nil {
		return r.s.failCreateBatch
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range hours {
		for _, h := range r.s.hours {
			if h.DoctorID == hours[i].DoctorID && h.DayOfWeek == hours[i].DayOfWeek {
				return uniqueViolation("doctor_working_hours_doctor_id_day_of_week_key")
			}
		}
		hours[i].ID = r.s.id()
		r.s.hours = append(r.s.hours, hours[i])
		id := hours[i].ID
		r.s.record(db, func() {
			for j, h := range r.s.hours {
				if h.ID == id {
					r.s.hours = append(r.s.hours[:j:j], r.s.hours[j+1:]...)
					return
				}
			}
		})
	}
	return nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	user.ID = uuid.New()
	r.s.users[user.ID] = *user
	id := user.ID
	r.s.record(db, func() { delete(r.s.users, id) })
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.User
	for _, u := range r.s.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	prev := u
	u.IsActive = active
	r.s.users[id] = u
	r.s.record(db, func() { r.s.users[id] = prev })
	return 1, nil
}

// -- Services --

type auditEntry struct {
	action   string
	entityID any
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, newValue any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{action: action, entityID: entityID})
	return nil
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, oldValue, newValue any) error {
	return m.LogCreate(ctx, tx, actorID, action, entityName, entityID, newValue)
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

type mockCache struct {
	mu                 sync.Mutex
	data               map[string][]entity.TimeSlot
	gens               map[int64]int64
	invalidated        int
	doctorsInvalidated []int64
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]entity.TimeSlot), gens: make(map[int64]int64)}
}

func cacheKey(doctorID, gen int64, date time.Time) string {
	return fmt.Sprintf("%s:g%d", service.BookingLockKey(doctorID, date, 0), gen)
}

func (c *mockCache) Get(ctx context.Context, doctorID int64, date time.Time) ([]entity.TimeSlot, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[doctorID]
	slots, ok := c.data[cacheKey(doctorID, gen, date)]
	return slots, gen, ok
}

func (c *mockCache) Set(ctx context.Context, doctorID int64, date time.Time, gen int64, slots []entity.TimeSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[cacheKey(doctorID, gen, date)] = slots
}

func (c *mockCache) Invalidate(ctx context.Context, doctorID int64, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gens[doctorID]++
}

func (c *mockCache) InvalidateDoctor(ctx context.Context, doctorID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doctorsInvalidated = append(c.doctorsInvalidated, doctorID)
	c.gens[doctorID]++
}

type mockTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]bool
	revoked []uuid.UUID
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]bool)}
}

func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (m *mockTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenKey(tokenType, userID, tokenID)] = true
	return nil
}

func (m *mockTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[tokenKey(tokenType, userID, tokenID)], nil
}

func (m *mockTokenStore) Delete(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, tokenKey(tokenType, userID, tokenID))
	return nil
}

func (m *mockTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, userID)
	for k := range m.tokens {
		if strings.Contains(k, ":"+userID.String()+":") {
			delete(m.tokens, k)
		}
	}
	return nil
}

// passthroughLocker runs fn without mutual exclusion so only the
// storage constraints protect the booking
type passthroughLocker struct{}

func (passthroughLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughLocker) Stop() {}

// -- Fixture --

// testToday is a Wednesday
var testToday = time.Date(2030, 1, 9, 0, 0, 0, 0, time.UTC)

// nextMonday is the Monday after testToday
var nextMonday = time.Date(2030, 1, 14, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memStore
	tx      *memTxManager
	catalog service.Catalog
	cache   *mockCache
	audit   *mockAuditService
	tokens  *mockTokenStore
	locker  service.KeyLocker
	log     *logrus.Logger
	clock   clock.Clock

	appointments *memAppointmentRepo
	doctors      *memDoctorRepo
	patients     *memPatientRepo
	hours        *memWorkingHoursRepo
	users        *memUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := newMemStore()
	locker := service.NewLocalKeyLocker(log)
	t.Cleanup(locker.Stop)

	return &fixture{
		store:        store,
		tx:           &memTxManager{store: store},
		catalog:      testCatalog(t),
		cache:        newMockCache(),
		audit:        &mockAuditService{},
		tokens:       newMockTokenStore(),
		locker:       locker,
		log:          log,
		clock:        clock.Fixed(testToday.Add(10 * time.Hour)),
		appointments: &memAppointmentRepo{s: store},
		doctors:      &memDoctorRepo{s: store},
		patients:     &memPatientRepo{s: store},
		hours:        &memWorkingHoursRepo{s: store},
		users:        &memUserRepo{s: store},
	}
}

func (f *fixture) appointmentUsecase() AppointmentUsecase {
	return NewAppointmentUsecase(f.tx, f.log, f.appointments, f.doctors, f.patients, f.hours, f.catalog, f.locker, f.cache, f.audit, f.clock)
}

func (f *fixture) availabilityUsecase() AvailabilityUsecase {
	return NewAvailabilityUsecase(f.tx, f.log, f.hours, f.appointments, f.catalog, f.cache)
}

func (f *fixture) workingHoursUsecase() WorkingHoursUsecase {
	return NewWorkingHoursUsecase(f.tx, f.log, f.doctors, f.patients, f.hours, f.locker, f.cache, f.audit)
}

func (f *fixture) doctorUsecase() DoctorUsecase {
	return NewDoctorUsecase(f.tx, f.log, f.users, f.doctors, f.hours, f.appointments, f.catalog, f.cache, f.tokens, f.audit, f.clock)
}

func (f *fixture) userUsecase() UserUsecase {
	return NewUserUsecase(f.tx, f.log, f.users, f.doctors, f.cache, f.tokens, f.audit)
}

// mondayDoctor is an active doctor working Mondays 09:00-12:00
func (f *fixture) mondayDoctor() entity.Doctor {
	d := f.store.addDoctor(true, true)
	f.store.addHours(d.ID, entity.Monday, entity.TimeAt(9, 0), entity.TimeAt(12, 0))
	return d
}

func slotIDs(slots []entity.TimeSlot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
