package models

// ClassGroup is a teacher-owned group of students. The counts and
// AverageMastery are server-side aggregates.
type ClassGroup struct {
	ID              int64    `json:"id"`
	ClassName       string   `json:"class_name"`
	TeacherID       int64    `json:"teacher_id"`
	Subject         *string  `json:"subject"`
	Level           *string  `json:"level"`
	Description     *string  `json:"description"`
	StudentCount    int      `json:"student_count"`
	AssignmentCount int      `json:"assignment_count"`
	AverageMastery  *float64 `json:"average_mastery"`
}

// CreateClassRequest is the class creation payload.
type CreateClassRequest struct {
	ClassName   string `json:"class_name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Level       string `json:"level,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateClassRequest carries only the fields being changed.
type UpdateClassRequest struct {
	ClassName   *string `json:"class_name,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Level       *string `json:"level,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Student is a class-scoped enrollment row.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AddStudentsResult is the batch-add outcome: ids that were enrolled plus
// per-student failure messages for the rest.
type AddStudentsResult struct {
	Added   []int64  `json:"added"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// Assignment binds a study set to a class. The study set fields are
// denormalized by the server for display.
type Assignment struct {
	AssignmentID int64      `json:"assignment_id"`
	SetID        int64      `json:"set_id"`
	DueDate      *Timestamp `json:"due_date"`
	AssignedBy   int64      `json:"assigned_by"`
	Title        string     `json:"title"`
	Subject      *string    `json:"subject"`
	Type         string     `json:"type"`
	Level        *string    `json:"level"`
	Description  *string    `json:"description"`
}

// CreateAssignmentRequest assigns one study set to one class.
type CreateAssignmentRequest struct {
	SetID   int64  `json:"set_id" validate:"required"`
	DueDate string `json:"due_date,omitempty"`
}

// CreateAssignmentResult is the creation acknowledgement.
type CreateAssignmentResult struct {
	Message      string `json:"message"`
	AssignmentID int64  `json:"assignment_id"`
}
