package services

import (
	"context"
	"mime/multipart"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
)

// mockStudentStore is an in-memory StudentStore.
type mockStudentStore struct {
	students  map[string]*models.Student
	createErr error
	getErr    error
	created   []*models.Student
}

func newMockStudentStore(students ...*models.Student) *mockStudentStore {
	m := &mockStudentStore{students: make(map[string]*models.Student)}
	for _, s := range students {
		m.students[s.StudentID] = s
	}
	return m
}

func (m *mockStudentStore) Create(_ context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.students[student.StudentID] = student
	m.created = append(m.created, student)
	return nil
}

func (m *mockStudentStore) GetByID(_ context.Context, studentID string) (*models.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.students[studentID]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (m *mockStudentStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

// mockTeacherStore is an in-memory TeacherStore.
type mockTeacherStore struct {
	teachers  map[string]*models.Teacher
	createErr error
	getErr    error
	created   []*models.Teacher
}

func newMockTeacherStore(teachers ...*models.Teacher) *mockTeacherStore {
	m := &mockTeacherStore{teachers: make(map[string]*models.Teacher)}
	for _, t := range teachers {
		m.teachers[t.TeacherID] = t
	}
	return m
}

func (m *mockTeacherStore) Create(_ context.Context, teacher *models.Teacher) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.teachers[teacher.TeacherID] = teacher
	m.created = append(m.created, teacher)
	return nil
}

func (m *mockTeacherStore) GetByID(_ context.Context, teacherID string) (*models.Teacher, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if t, ok := m.teachers[teacherID]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

// mockAchievementStore records inserts and serves canned query results.
type mockAchievementStore struct {
	inserted    []*models.Achievement
	insertErr   error
	queryErr    error
	stats       *models.TeacherStats
	rows        []models.Achievement
	recentLimit int
}

func (m *mockAchievementStore) Insert(_ context.Context, a *models.Achievement) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	a.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, a)
	return nil
}

func (m *mockAchievementStore) StatsByTeacher(_ context.Context, _ string) (*models.TeacherStats, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.stats, nil
}

func (m *mockAchievementStore) RecentByTeacher(_ context.Context, _ string, limit int) ([]models.Achievement, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.recentLimit = limit
	return m.rows, nil
}

func (m *mockAchievementStore) AllByTeacher(_ context.Context, _ string) ([]models.Achievement, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.rows, nil
}

func (m *mockAchievementStore) AllByStudent(_ context.Context, _ string) ([]models.Achievement, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.rows, nil
}

// mockCertificateStorage stands in for the filesystem.
type mockCertificateStorage struct {
	path  string
	err   error
	calls int
}

func (m *mockCertificateStorage) SaveCertificate(_ *multipart.FileHeader) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.path, nil
}
