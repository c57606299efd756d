package models

import "time"

// AchievementType enumerates the recognized achievement categories. The type
// decides which of the optional columns carry meaning for a record.
type AchievementType string

const (
	TypeSymposium      AchievementType = "symposium"
	TypeCodingContest  AchievementType = "coding-contest"
	TypePublication    AchievementType = "publication"
	TypeConference     AchievementType = "conference"
	TypeProject        AchievementType = "project"
	TypeDatabaseDesign AchievementType = "database-design"
	TypeOther          AchievementType = "other"
)

// Valid reports whether t is a known achievement type.
func (t AchievementType) Valid() bool {
	switch t {
	case TypeSymposium, TypeCodingContest, TypePublication, TypeConference,
		TypeProject, TypeDatabaseDesign, TypeOther:
		return true
	}
	return false
}

// UnknownTeacherID is the placeholder author recorded on achievement rows that
// predate teacher attribution. Legacy rows keep it permanently.
const UnknownTeacherID = "unknown"

// Achievement is one reported accomplishment, tied to exactly one student and
// the teacher who recorded it. Records are created once and never modified.
// Optional type-specific fields are nil unless the achievement type gives
// them meaning (wide-table storage, application-level validation).
type Achievement struct {
	ID              int64           `json:"id" db:"id"`
	StudentID       string          `json:"studentId" db:"student_id"`
	TeacherID       string          `json:"teacherId" db:"teacher_id"`
	AchievementType AchievementType `json:"achievementType" db:"achievement_type"`
	EventName       string          `json:"eventName" db:"event_name"`
	AchievementDate time.Time       `json:"achievementDate" db:"achievement_date"`
	Organizer       string          `json:"organizer" db:"organizer"`
	Position        string          `json:"position" db:"position"`
	Description     *string         `json:"description,omitempty" db:"achievement_description"`
	CertificatePath *string         `json:"certificatePath,omitempty" db:"certificate_path"`

	SymposiumTheme      *string `json:"symposiumTheme,omitempty" db:"symposium_theme"`
	ProgrammingLanguage *string `json:"programmingLanguage,omitempty" db:"programming_language"`
	CodingPlatform      *string `json:"codingPlatform,omitempty" db:"coding_platform"`
	PaperTitle          *string `json:"paperTitle,omitempty" db:"paper_title"`
	JournalName         *string `json:"journalName,omitempty" db:"journal_name"`
	ConferenceLevel     *string `json:"conferenceLevel,omitempty" db:"conference_level"`
	ConferenceRole      *string `json:"conferenceRole,omitempty" db:"conference_role"`
	TeamSize            *int    `json:"teamSize,omitempty" db:"team_size"`
	ProjectTitle        *string `json:"projectTitle,omitempty" db:"project_title"`
	DatabaseType        *string `json:"databaseType,omitempty" db:"database_type"`
	DifficultyLevel     *string `json:"difficultyLevel,omitempty" db:"difficulty_level"`
	OtherDescription    *string `json:"otherDescription,omitempty" db:"other_description"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// StudentName is populated by listing queries joined against students.
	StudentName string `json:"studentName,omitempty" db:"student_name"`
}

// TeacherStats holds the aggregate numbers shown on the teacher dashboard.
type TeacherStats struct {
	TotalAchievements int64 `json:"totalAchievements"`
	StudentsManaged   int64 `json:"studentsManaged"`
	ThisWeek          int64 `json:"thisWeek"`
}
