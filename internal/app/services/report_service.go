package services

import (
	"context"
	"fmt"

	"github.com/meritbook/meritbook/internal/app/models"
)

// RecentEntriesLimit caps the dashboard's recent-entries panel.
const RecentEntriesLimit = 5

// ReportService answers the read-only reporting queries. Every operation is
// scoped to the calling identity's own records; empty results are normal,
// never an error.
type ReportService interface {
	DashboardStats(ctx context.Context, teacherID string) (*models.TeacherStats, error)
	RecentEntries(ctx context.Context, teacherID string) ([]models.Achievement, error)
	AllAchievements(ctx context.Context, teacherID string) ([]models.Achievement, error)
	StudentAchievements(ctx context.Context, studentID string) ([]models.Achievement, error)
}

type reportServiceImpl struct {
	achievements AchievementStore
}

// NewReportService creates a new report service instance
func NewReportService(achievements AchievementStore) ReportService {
	return &reportServiceImpl{achievements: achievements}
}

// DashboardStats returns the aggregate counters for one teacher.
func (s *reportServiceImpl) DashboardStats(ctx context.Context, teacherID string) (*models.TeacherStats, error) {
	stats, err := s.achievements.StatsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}
	return stats, nil
}

// RecentEntries returns the teacher's newest submissions by creation time.
func (s *reportServiceImpl) RecentEntries(ctx context.Context, teacherID string) ([]models.Achievement, error) {
	entries, err := s.achievements.RecentByTeacher(ctx, teacherID, RecentEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent entries: %w", err)
	}
	return entries, nil
}

// AllAchievements returns every record the teacher submitted, achievement
// date descending.
func (s *reportServiceImpl) AllAchievements(ctx context.Context, teacherID string) ([]models.Achievement, error) {
	achievements, err := s.achievements.AllByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving achievements: %w", err)
	}
	return achievements, nil
}

// StudentAchievements returns a student's own achievement history.
func (s *reportServiceImpl) StudentAchievements(ctx context.Context, studentID string) ([]models.Achievement, error) {
	achievements, err := s.achievements.AllByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student achievements: %w", err)
	}
	return achievements, nil
}
