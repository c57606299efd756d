package services

import (
	"context"
	"mime/multipart"

	"github.com/meritbook/meritbook/internal/app/models"
)

// StudentStore is the persistence surface the services need for student
// accounts. Implemented by repositories.StudentRepository.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
}

// TeacherStore is the persistence surface for teacher accounts.
// Implemented by repositories.TeacherRepository.
type TeacherStore interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, teacherID string) (*models.Teacher, error)
}

// AchievementStore is the persistence surface for achievement records.
// Implemented by repositories.AchievementRepository.
type AchievementStore interface {
	Insert(ctx context.Context, a *models.Achievement) error
	StatsByTeacher(ctx context.Context, teacherID string) (*models.TeacherStats, error)
	RecentByTeacher(ctx context.Context, teacherID string, limit int) ([]models.Achievement, error)
	AllByTeacher(ctx context.Context, teacherID string) ([]models.Achievement, error)
	AllByStudent(ctx context.Context, studentID string) ([]models.Achievement, error)
}

// CertificateStorage writes certificate uploads durably before the database
// row commits. Implemented by filestorage.LocalStorage.
type CertificateStorage interface {
	SaveCertificate(fileHeader *multipart.FileHeader) (string, error)
}
