package models

// Role identifies which account namespace a session belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Student defines the student account based on the 'students' table.
// StudentID is user-supplied, globally unique and immutable once created.
type Student struct {
	StudentID    string `json:"studentId" db:"student_id"`
	StudentName  string `json:"studentName" db:"student_name"`
	Email        string `json:"email" db:"email"`
	PhoneNumber  string `json:"phoneNumber,omitempty" db:"phone_number"`
	PasswordHash string `json:"-" db:"password_hash"`
	Gender       string `json:"gender,omitempty" db:"gender"`
	Department   string `json:"department,omitempty" db:"department"`
}

// Teacher defines the teacher account based on the 'teachers' table.
// The registration code gating account creation is checked once and never stored.
type Teacher struct {
	TeacherID    string `json:"teacherId" db:"teacher_id"`
	TeacherName  string `json:"teacherName" db:"teacher_name"`
	Email        string `json:"email" db:"email"`
	PhoneNumber  string `json:"phoneNumber,omitempty" db:"phone_number"`
	PasswordHash string `json:"-" db:"password_hash"`
	Gender       string `json:"gender,omitempty" db:"gender"`
	Department   string `json:"department,omitempty" db:"department"`
}
