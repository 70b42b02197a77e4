package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/config"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/apperror"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	demoPassword     = "12345"
	fakePatientCount = 20
	seedConcurrency  = 4
)

type staffSeed struct {
	email, password, firstName, lastName string
	roleID                               int
}

type doctorSeed struct {
	email, firstName, lastName, expertise string
	fee                                   int64
	hours                                 []dto.WorkingHourRow
}

var staff = []staffSeed{
	{"admin@clinic.com", "admin123", "System", "Admin", entity.RoleIDAdmin},
	{"secretary@clinic.com", "secretary", "Clinic", "Secretary", entity.RoleIDSecretary},
}

var doctors = []doctorSeed{
	{"dr.smith@clinic.com", "John", "Smith", "Cardiology", 150, weekly("09:00", "12:00", "Mon", "Tue", "Wed")},
	{"dr.brown@clinic.com", "Emily", "Brown", "Dermatology", 120, weekly("10:00", "13:00", "Mon", "Thu", "Fri")},
	{"dr.jones@clinic.com", "Michael", "Jones", "Neurology", 180, weekly("08:30", "11:30", "Tue", "Wed", "Thu")},
	{"dr.wilson@clinic.com", "Sarah", "Wilson", "Orthopedics", 160, weekly("11:00", "15:00", "Mon", "Wed", "Fri")},
}

var patients = []dto.RegisterPatientRequest{
	{Email: "alice@mail.com", Password: demoPassword, FirstName: "Alice", LastName: "Johnson", Phone: "555-1001"},
	{Email: "bob@mail.com", Password: demoPassword, FirstName: "Bob", LastName: "Williams", Phone: "555-1002"},
}

func weekly(start, end string, days ...string) []dto.WorkingHourRow {
	rows := make([]dto.WorkingHourRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, dto.WorkingHourRow{DayOfWeek: d, StartTime: start, EndTime: end})
	}
	return rows
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.StandardLogger()
	log.Info("seed starting")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := bootstrap.NewServices(ctx, cfg, log)
	if err != nil {
		log.Fatalf("init services: %v", err)
	}
	defer s.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedStaff(ctx, s); err != nil {
		log.Fatalf("seed staff: %v", err)
	}
	if err := seedDoctors(ctx, s); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(ctx, s, fakePatientCount); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Info("seed complete")
}

// seedStaff inserts admin and secretary accounts. Staff have no
// registration endpoint, so the users are written directly.
func seedStaff(ctx context.Context, s *bootstrap.Services) error {
	for _, st := range staff {
		err := s.TxManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
			existing, err := s.UserRepo.FindByEmail(ctx, tx, st.email)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(st.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			return s.UserRepo.Create(ctx, tx, &entity.User{
				RoleID:    st.roleID,
				Email:     st.email,
				Password:  string(hashed),
				FirstName: st.firstName,
				LastName:  st.lastName,
				IsActive:  true,
			})
		})
		if err != nil {
			return fmt.Errorf("%s: %w", st.email, err)
		}
	}
	s.Log.Infof("%d staff accounts ready", len(staff))
	return nil
}

func seedDoctors(ctx context.Context, s *bootstrap.Services) error {
	for _, d := range doctors {
		_, err := s.DoctorUsecase.CreateDoctor(ctx, &dto.CreateDoctorRequest{
			Email:           d.email,
			Password:        demoPassword,
			FirstName:       d.firstName,
			LastName:        d.lastName,
			Expertise:       d.expertise,
			ConsultationFee: decimal.NewFromInt(d.fee),
			WorkingHours:    d.hours,
		})
		if err != nil && apperror.KindOf(err) != apperror.KindAlreadyExists {
			return fmt.Errorf("%s: %w", d.email, err)
		}
	}
	s.Log.Infof("%d doctors ready", len(doctors))
	return nil
}

// seedPatients registers the fixed demo patients plus count generated ones,
// a few registrations at a time.
func seedPatients(ctx context.Context, s *bootstrap.Services, count int) error {
	reqs := append([]dto.RegisterPatientRequest{}, patients...)
	for i := 0; i < count; i++ {
		reqs = append(reqs, dto.RegisterPatientRequest{
			Email:     strings.ToLower(fmt.Sprintf("%d.%s", i, gofakeit.Email())),
			Password:  demoPassword,
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Phone:     gofakeit.Numerify("555-####"),
		})
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(seedConcurrency)
	for _, req := range reqs {
		p.Go(func(ctx context.Context) error {
			_, err := s.AuthUsecase.RegisterPatient(ctx, &req)
			if err != nil && apperror.KindOf(err) != apperror.KindAlreadyExists {
				return fmt.Errorf("%s: %w", req.Email, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	s.Log.Infof("%d patients ready", len(reqs))
	return nil
}
