package dto

// SubmitAchievementRequest carries the achievement submission form. The
// type-specific fields are all optional; the service keeps only the ones that
// are meaningful for the submitted achievement type.
type SubmitAchievementRequest struct {
	StudentID       string `form:"student_id" binding:"required"`
	AchievementType string `form:"achievement_type" binding:"required"`
	EventName       string `form:"event_name" binding:"required"`
	AchievementDate string `form:"achievement_date" binding:"required"`
	Organizer       string `form:"organizer" binding:"required"`
	Position        string `form:"position" binding:"required"`
	Description     string `form:"achievement_description"`

	SymposiumTheme      string `form:"symposium_theme"`
	ProgrammingLanguage string `form:"programming_language"`
	CodingPlatform      string `form:"coding_platform"`
	PaperTitle          string `form:"paper_title"`
	JournalName         string `form:"journal_name"`
	ConferenceLevel     string `form:"conference_level"`
	ConferenceRole      string `form:"conference_role"`
	TeamSize            string `form:"team_size"`
	ProjectTitle        string `form:"project_title"`
	DatabaseType        string `form:"database_type"`
	DifficultyLevel     string `form:"difficulty_level"`
	OtherDescription    string `form:"other_description"`
}
