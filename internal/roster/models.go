package roster

import "time"

// User is an account that can sign in as a teacher or a student.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Batch is an enrollment cohort identified by year.
type Batch struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
	Name string `json:"name"`
}

// Semester is an academic term.
type Semester struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Subject belongs to exactly one semester.
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	SemesterID string `json:"semesterId"`
}

// Student links a user account to a batch and semester.
type Student struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	RollNo     string `json:"rollNo"`
	BatchID    string `json:"batchId"`
	SemesterID string `json:"semesterId"`
}

// Teacher links a user account to an employee id.
type Teacher struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	EmployeeID string `json:"employeeId"`
}

// StudentRow is a student joined with its user account. Report code and the
// roster endpoints want name and email without re-fetching users.
type StudentRow struct {
	Student
	Name  string `json:"name"`
	Email string `json:"email"`
}
