package dto

// StudentLoginRequest carries the student login form fields.
type StudentLoginRequest struct {
	StudentID string `form:"sname" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

// TeacherLoginRequest carries the teacher login form fields.
type TeacherLoginRequest struct {
	TeacherID string `form:"tname" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

// StudentRegistration carries the student self-registration form fields.
type StudentRegistration struct {
	StudentName string `form:"student_name" binding:"required"`
	StudentID   string `form:"student_id" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	PhoneNumber string `form:"phone_number"`
	Password    string `form:"password" binding:"required,min=6"`
	Gender      string `form:"student_gender"`
	Department  string `form:"student_dept"`
}

// TeacherRegistration carries the teacher self-registration form fields.
// RegistrationCode is compared against the configured shared secret and is
// never persisted.
type TeacherRegistration struct {
	TeacherName      string `form:"teacher_name" binding:"required"`
	TeacherID        string `form:"teacher_id" binding:"required"`
	Email            string `form:"email" binding:"required,email"`
	PhoneNumber      string `form:"phone_number"`
	Password         string `form:"password" binding:"required,min=6"`
	Gender           string `form:"teacher_gender"`
	Department       string `form:"teacher_dept"`
	RegistrationCode string `form:"teacher_code" binding:"required"`
}
