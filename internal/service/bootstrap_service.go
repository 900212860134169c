package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
)

type bootstrapUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type bootstrapTeacherWriter interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type bootstrapSubjectWriter interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

type bootstrapRoomWriter interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
}

type bootstrapClassWriter interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
}

type bootstrapSlotWriter interface {
	ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error)
	ListByDay(ctx context.Context, tenantID, day string) ([]models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
}

type bootstrapTimetableWriter interface {
	Create(ctx context.Context, entry *models.TimetableEntry) error
	CountByClass(ctx context.Context, tenantID, classID string) (int, error)
}

// lunchSlotNumber is skipped when seeding random timetables.
const lunchSlotNumber = 4

// BootstrapService seeds a demo tenant with master data and a randomized
// weekly timetable per class. The random source is injected so seeding is
// reproducible with a fixed seed.
type BootstrapService struct {
	users     bootstrapUserRepository
	teachers  bootstrapTeacherWriter
	subjects  bootstrapSubjectWriter
	rooms     bootstrapRoomWriter
	classes   bootstrapClassWriter
	slots     bootstrapSlotWriter
	timetable bootstrapTimetableWriter
	rng       *rand.Rand
	logger    *zap.Logger
}

// NewBootstrapService wires seeding dependencies.
func NewBootstrapService(
	users bootstrapUserRepository,
	teachers bootstrapTeacherWriter,
	subjects bootstrapSubjectWriter,
	rooms bootstrapRoomWriter,
	classes bootstrapClassWriter,
	slots bootstrapSlotWriter,
	timetable bootstrapTimetableWriter,
	rng *rand.Rand,
	logger *zap.Logger,
) *BootstrapService {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BootstrapService{
		users:     users,
		teachers:  teachers,
		subjects:  subjects,
		rooms:     rooms,
		classes:   classes,
		slots:     slots,
		timetable: timetable,
		rng:       rng,
		logger:    logger,
	}
}

// Run seeds the demo account and its data. Idempotent: an existing admin
// account short-circuits master data creation, and classes that already carry
// a timetable are left alone.
func (s *BootstrapService) Run(ctx context.Context, cfg config.SeedConfig) error {
	tenantID, fresh, err := s.ensureAdmin(ctx, cfg)
	if err != nil {
		return err
	}
	if fresh {
		if err := s.seedMasterData(ctx, tenantID); err != nil {
			return err
		}
	}
	return s.seedTimetables(ctx, tenantID)
}

func (s *BootstrapService) ensureAdmin(ctx context.Context, cfg config.SeedConfig) (string, bool, error) {
	existing, err := s.users.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", false, err
	}
	admin := &models.User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Institution:  cfg.Institution,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return "", false, err
	}
	s.logger.Info("seeded admin account", zap.String("email", cfg.AdminEmail))
	return admin.ID, true, nil
}

func (s *BootstrapService) seedMasterData(ctx context.Context, tenantID string) error {
	teachers := []models.Teacher{
		{Name: "Dr. Anita Rao", Email: "anita.rao@example.edu", Department: "Computer Science", Specialization: "Algorithms", MaxHoursPerDay: 5, MaxHoursPerWeek: 22},
		{Name: "Prof. Vikram Shah", Email: "vikram.shah@example.edu", Department: "Computer Science", Specialization: "Databases", MaxHoursPerDay: 5, MaxHoursPerWeek: 20},
		{Name: "Dr. Meera Iyer", Email: "meera.iyer@example.edu", Department: "Electronics", Specialization: "Signals", MaxHoursPerDay: 6, MaxHoursPerWeek: 24},
		{Name: "Prof. Arjun Nair", Email: "arjun.nair@example.edu", Department: "Mathematics", Specialization: "Statistics", MaxHoursPerDay: 4, MaxHoursPerWeek: 18},
		{Name: "Dr. Kavita Desai", Email: "kavita.desai@example.edu", Department: "Computer Science", Specialization: "Networks", MaxHoursPerDay: 5, MaxHoursPerWeek: 20},
	}
	for i := range teachers {
		teachers[i].TenantID = tenantID
		if err := s.teachers.Create(ctx, &teachers[i]); err != nil {
			return err
		}
	}

	subjects := []models.Subject{
		{Name: "Data Structures", Code: "CS201", Department: "Computer Science", Credits: 4, HoursPerWeek: 4, Kind: models.SubjectTheory},
		{Name: "Database Systems", Code: "CS301", Department: "Computer Science", Credits: 4, HoursPerWeek: 4, Kind: models.SubjectTheory},
		{Name: "Operating Systems", Code: "CS302", Department: "Computer Science", Credits: 4, HoursPerWeek: 3, Kind: models.SubjectTheory},
		{Name: "Programming Lab", Code: "CS291", Department: "Computer Science", Credits: 2, HoursPerWeek: 2, Kind: models.SubjectPractical},
		{Name: "Digital Circuits", Code: "EC201", Department: "Electronics", Credits: 3, HoursPerWeek: 3, Kind: models.SubjectTheory},
		{Name: "Circuits Lab", Code: "EC291", Department: "Electronics", Credits: 2, HoursPerWeek: 2, Kind: models.SubjectPractical},
		{Name: "Discrete Mathematics", Code: "MA201", Department: "Mathematics", Credits: 3, HoursPerWeek: 3, Kind: models.SubjectTheory},
		{Name: "Probability", Code: "MA301", Department: "Mathematics", Credits: 3, HoursPerWeek: 3, Kind: models.SubjectTheory},
	}
	for i := range subjects {
		subjects[i].TenantID = tenantID
		if err := s.subjects.Create(ctx, &subjects[i]); err != nil {
			return err
		}
	}

	rooms := []models.Room{
		{Name: "Main Hall", RoomNumber: "101", Capacity: 60, RoomType: "Classroom", HasProjector: true},
		{Name: "Lecture Hall A", RoomNumber: "102", Capacity: 120, RoomType: "Lecture Hall", HasProjector: true},
		{Name: "Smart Room", RoomNumber: "103", Capacity: 40, RoomType: "Smart Classroom", HasProjector: true},
		{Name: "Computing Lab", RoomNumber: "201", Capacity: 30, RoomType: "Lab", HasLabEquipment: true},
		{Name: "Electronics Workshop", RoomNumber: "202", Capacity: 25, RoomType: "Workshop", HasLabEquipment: true},
	}
	for i := range rooms {
		rooms[i].TenantID = tenantID
		if err := s.rooms.Create(ctx, &rooms[i]); err != nil {
			return err
		}
	}

	classes := []models.Class{
		{Name: "CS-3A", Semester: "3", Department: "Computer Science", StudentCount: 55},
		{Name: "CS-3B", Semester: "3", Department: "Computer Science", StudentCount: 52},
		{Name: "EC-3A", Semester: "3", Department: "Electronics", StudentCount: 48},
	}
	for i := range classes {
		classes[i].TenantID = tenantID
		if err := s.classes.Create(ctx, &classes[i]); err != nil {
			return err
		}
	}

	slotTimes := []struct {
		start, end string
	}{
		{"09:00", "10:00"},
		{"10:00", "11:00"},
		{"11:00", "12:00"},
		{"12:00", "13:00"},
		{"13:00", "14:00"},
		{"14:00", "15:00"},
		{"15:00", "16:00"},
	}
	for _, day := range models.Weekdays {
		for i, t := range slotTimes {
			slot := models.TimeSlot{
				TenantID:   tenantID,
				Day:        day,
				StartTime:  t.start,
				EndTime:    t.end,
				SlotNumber: i + 1,
			}
			if err := s.slots.Create(ctx, &slot); err != nil {
				return err
			}
		}
	}

	s.logger.Info("seeded master data", zap.String("tenant_id", tenantID))
	return nil
}

// seedTimetables fills each empty class with 4 to 5 random entries per day,
// skipping the lunch slot and matching room types to the subject kind.
func (s *BootstrapService) seedTimetables(ctx context.Context, tenantID string) error {
	teachers, err := s.teachers.ListAll(ctx, tenantID)
	if err != nil {
		return err
	}
	subjects, err := s.subjects.ListAll(ctx, tenantID)
	if err != nil {
		return err
	}
	rooms, err := s.rooms.ListAll(ctx, tenantID)
	if err != nil {
		return err
	}
	classes, err := s.classes.ListAll(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(teachers) == 0 || len(subjects) == 0 || len(rooms) == 0 {
		s.logger.Warn("skipping timetable seeding, master data incomplete")
		return nil
	}

	for _, class := range classes {
		count, err := s.timetable.CountByClass(ctx, tenantID, class.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := s.seedClassWeek(ctx, tenantID, class, teachers, subjects, rooms); err != nil {
			return err
		}
	}
	return nil
}

func (s *BootstrapService) seedClassWeek(
	ctx context.Context,
	tenantID string,
	class models.Class,
	teachers []models.Teacher,
	subjects []models.Subject,
	rooms []models.Room,
) error {
	pool := subjectPool(subjects, class.Department)
	created := 0

	for _, day := range models.Weekdays {
		daySlots, err := s.slots.ListByDay(ctx, tenantID, day)
		if err != nil {
			return err
		}
		var candidates []models.TimeSlot
		for _, slot := range daySlots {
			if slot.SlotNumber != lunchSlotNumber {
				candidates = append(candidates, slot)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		want := 4 + s.rng.Intn(2)
		if want > len(candidates) {
			want = len(candidates)
		}
		chosen := s.sampleSlots(candidates, want)

		for _, slot := range chosen {
			subject := pool[s.rng.Intn(len(pool))]
			teacher := teachers[s.rng.Intn(len(teachers))]
			room := s.pickRoom(rooms, subject.Kind)

			entry := &models.TimetableEntry{
				TenantID:   tenantID,
				ClassID:    class.ID,
				SubjectID:  subject.ID,
				TeacherID:  teacher.ID,
				RoomID:     room.ID,
				TimeSlotID: slot.ID,
				Day:        day,
			}
			if err := s.timetable.Create(ctx, entry); err != nil {
				return err
			}
			created++
		}
	}

	s.logger.Info("seeded class timetable",
		zap.String("class", class.Name),
		zap.Int("entries", created))
	return nil
}

// sampleSlots draws n distinct slots, returned in slot number order.
func (s *BootstrapService) sampleSlots(slots []models.TimeSlot, n int) []models.TimeSlot {
	idx := s.rng.Perm(len(slots))[:n]
	sort.Ints(idx)
	out := make([]models.TimeSlot, 0, n)
	for _, i := range idx {
		out = append(out, slots[i])
	}
	return out
}

// pickRoom chooses a random room whose type suits the subject kind, falling
// back to the first room when no type matches.
func (s *BootstrapService) pickRoom(rooms []models.Room, kind models.SubjectKind) models.Room {
	wanted := map[string]bool{"Classroom": true, "Lecture Hall": true, "Smart Classroom": true}
	if kind == models.SubjectPractical {
		wanted = map[string]bool{"Lab": true, "Workshop": true}
	}
	var matches []models.Room
	for _, room := range rooms {
		if wanted[room.RoomType] {
			matches = append(matches, room)
		}
	}
	if len(matches) == 0 {
		return rooms[0]
	}
	return matches[s.rng.Intn(len(matches))]
}

// subjectPool filters subjects by the class department, falling back to the
// first four subjects when the department has none.
func subjectPool(subjects []models.Subject, department string) []models.Subject {
	var pool []models.Subject
	for _, subject := range subjects {
		if subject.Department == department {
			pool = append(pool, subject)
		}
	}
	if len(pool) == 0 {
		limit := len(subjects)
		if limit > 4 {
			limit = 4
		}
		pool = subjects[:limit]
	}
	return pool
}
