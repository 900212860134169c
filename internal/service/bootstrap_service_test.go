package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
)

type memUsers struct{ byEmail map[string]*models.User }

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = "tenant-1"
	m.byEmail[user.Email] = user
	return nil
}

type memTeachers struct{ items []models.Teacher }

func (m *memTeachers) ListAll(ctx context.Context, tenantID string) ([]models.Teacher, error) {
	return m.items, nil
}
func (m *memTeachers) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = fmt.Sprintf("teacher-%d", len(m.items)+1)
	m.items = append(m.items, *teacher)
	return nil
}

type memSubjects struct{ items []models.Subject }

func (m *memSubjects) ListAll(ctx context.Context, tenantID string) ([]models.Subject, error) {
	return m.items, nil
}
func (m *memSubjects) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = fmt.Sprintf("subject-%d", len(m.items)+1)
	m.items = append(m.items, *subject)
	return nil
}

type memRooms struct{ items []models.Room }

func (m *memRooms) ListAll(ctx context.Context, tenantID string) ([]models.Room, error) {
	return m.items, nil
}
func (m *memRooms) Create(ctx context.Context, room *models.Room) error {
	room.ID = fmt.Sprintf("room-%d", len(m.items)+1)
	m.items = append(m.items, *room)
	return nil
}

type memClasses struct{ items []models.Class }

func (m *memClasses) ListAll(ctx context.Context, tenantID string) ([]models.Class, error) {
	return m.items, nil
}
func (m *memClasses) Create(ctx context.Context, class *models.Class) error {
	class.ID = fmt.Sprintf("class-%d", len(m.items)+1)
	m.items = append(m.items, *class)
	return nil
}

type memSlots struct{ items []models.TimeSlot }

func (m *memSlots) ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error) {
	return m.items, nil
}
func (m *memSlots) ListByDay(ctx context.Context, tenantID, day string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, slot := range m.items {
		if slot.Day == day {
			out = append(out, slot)
		}
	}
	return out, nil
}
func (m *memSlots) Create(ctx context.Context, slot *models.TimeSlot) error {
	slot.ID = fmt.Sprintf("slot-%d", len(m.items)+1)
	m.items = append(m.items, *slot)
	return nil
}

type memTimetable struct{ items []models.TimetableEntry }

func (m *memTimetable) Create(ctx context.Context, entry *models.TimetableEntry) error {
	entry.ID = fmt.Sprintf("entry-%d", len(m.items)+1)
	m.items = append(m.items, *entry)
	return nil
}
func (m *memTimetable) CountByClass(ctx context.Context, tenantID, classID string) (int, error) {
	count := 0
	for _, entry := range m.items {
		if entry.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func runBootstrap(t *testing.T, seed int64) (*memTimetable, *memSubjects, *memRooms, *memSlots) {
	users := &memUsers{byEmail: map[string]*models.User{}}
	teachers := &memTeachers{}
	subjects := &memSubjects{}
	rooms := &memRooms{}
	classes := &memClasses{}
	slots := &memSlots{}
	timetable := &memTimetable{}

	svc := NewBootstrapService(users, teachers, subjects, rooms, classes, slots, timetable,
		rand.New(rand.NewSource(seed)), nil)

	err := svc.Run(context.Background(), config.SeedConfig{
		AdminEmail:    "admin@timetable.local",
		AdminPassword: "admin123",
		Institution:   "Demo University",
	})
	require.NoError(t, err)
	return timetable, subjects, rooms, slots
}

func TestBootstrapSeedsEveryClassEveryDay(t *testing.T) {
	timetable, _, _, _ := runBootstrap(t, 7)

	perClassDay := map[string]int{}
	for _, entry := range timetable.items {
		perClassDay[entry.ClassID+"/"+entry.Day]++
	}
	for key, count := range perClassDay {
		assert.GreaterOrEqual(t, count, 4, key)
		assert.LessOrEqual(t, count, 5, key)
	}
	// 3 classes x 5 days
	assert.Len(t, perClassDay, 15)
}

func TestBootstrapSkipsLunchSlot(t *testing.T) {
	timetable, _, _, slots := runBootstrap(t, 7)

	slotNumbers := map[string]int{}
	for _, slot := range slots.items {
		slotNumbers[slot.ID] = slot.SlotNumber
	}
	for _, entry := range timetable.items {
		assert.NotEqual(t, lunchSlotNumber, slotNumbers[entry.TimeSlotID],
			"lunch slot must stay free")
	}
}

func TestBootstrapMatchesRoomTypeToSubjectKind(t *testing.T) {
	timetable, subjects, rooms, _ := runBootstrap(t, 7)

	kindByID := map[string]models.SubjectKind{}
	for _, subject := range subjects.items {
		kindByID[subject.ID] = subject.Kind
	}
	typeByID := map[string]string{}
	for _, room := range rooms.items {
		typeByID[room.ID] = room.RoomType
	}

	practicalRooms := map[string]bool{"Lab": true, "Workshop": true}
	theoryRooms := map[string]bool{"Classroom": true, "Lecture Hall": true, "Smart Classroom": true}
	for _, entry := range timetable.items {
		roomType := typeByID[entry.RoomID]
		if kindByID[entry.SubjectID] == models.SubjectPractical {
			assert.True(t, practicalRooms[roomType], "practical subject placed in %s", roomType)
		} else {
			assert.True(t, theoryRooms[roomType], "theory subject placed in %s", roomType)
		}
	}
}

func TestBootstrapDeterministicWithFixedSeed(t *testing.T) {
	first, _, _, _ := runBootstrap(t, 42)
	second, _, _, _ := runBootstrap(t, 42)

	require.Equal(t, len(first.items), len(second.items))
	for i := range first.items {
		assert.Equal(t, first.items[i].SubjectID, second.items[i].SubjectID)
		assert.Equal(t, first.items[i].TeacherID, second.items[i].TeacherID)
		assert.Equal(t, first.items[i].RoomID, second.items[i].RoomID)
		assert.Equal(t, first.items[i].TimeSlotID, second.items[i].TimeSlotID)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	users := &memUsers{byEmail: map[string]*models.User{}}
	teachers := &memTeachers{}
	subjects := &memSubjects{}
	rooms := &memRooms{}
	classes := &memClasses{}
	slots := &memSlots{}
	timetable := &memTimetable{}

	svc := NewBootstrapService(users, teachers, subjects, rooms, classes, slots, timetable,
		rand.New(rand.NewSource(1)), nil)
	cfg := config.SeedConfig{AdminEmail: "admin@timetable.local", AdminPassword: "admin123"}

	require.NoError(t, svc.Run(context.Background(), cfg))
	firstEntries := len(timetable.items)
	firstSubjects := len(subjects.items)

	require.NoError(t, svc.Run(context.Background(), cfg))
	assert.Equal(t, firstEntries, len(timetable.items), "second run must not duplicate timetables")
	assert.Equal(t, firstSubjects, len(subjects.items), "second run must not duplicate master data")
}

func TestSubjectPoolFallsBackToFirstFour(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Department: "Physics"},
		{ID: "s2", Department: "Physics"},
		{ID: "s3", Department: "Physics"},
		{ID: "s4", Department: "Physics"},
		{ID: "s5", Department: "Physics"},
	}
	pool := subjectPool(subjects, "History")
	require.Len(t, pool, 4)
	assert.Equal(t, "s1", pool[0].ID)

	matched := subjectPool(subjects, "Physics")
	assert.Len(t, matched, 5)
}
