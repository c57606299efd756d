package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritbook/meritbook/internal/app/models"
)

func TestDashboardStats(t *testing.T) {
	achievements := &mockAchievementStore{
		stats: &models.TeacherStats{TotalAchievements: 12, StudentsManaged: 7, ThisWeek: 2},
	}
	svc := NewReportService(achievements)

	stats, err := svc.DashboardStats(context.Background(), "T2001")
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalAchievements)
	assert.Equal(t, int64(7), stats.StudentsManaged)
	assert.Equal(t, int64(2), stats.ThisWeek)
}

func TestRecentEntriesUsesFixedLimit(t *testing.T) {
	achievements := &mockAchievementStore{
		rows: []models.Achievement{{EventName: "Tech Fest"}},
	}
	svc := NewReportService(achievements)

	entries, err := svc.RecentEntries(context.Background(), "T2001")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, RecentEntriesLimit, achievements.recentLimit)
}

func TestReportQueriesWrapStorageErrors(t *testing.T) {
	achievements := &mockAchievementStore{queryErr: errors.New("connection refused")}
	svc := NewReportService(achievements)

	_, err := svc.DashboardStats(context.Background(), "T2001")
	assert.Error(t, err)

	_, err = svc.AllAchievements(context.Background(), "T2001")
	assert.Error(t, err)

	_, err = svc.StudentAchievements(context.Background(), "S1001")
	assert.Error(t, err)
}

func TestStudentAchievementsEmptyIsNotAnError(t *testing.T) {
	svc := NewReportService(&mockAchievementStore{})

	entries, err := svc.StudentAchievements(context.Background(), "S1001")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
