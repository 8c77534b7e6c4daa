package model

import "time"

// Task priorities. Free-form at the storage level, validated at the boundary.
const (
	PriorityUrgent    = "URGENT"
	PriorityImportant = "IMPORTANT"
	PriorityDaily     = "DAILY TASK"
)

// Recognized task statuses. The status column accepts other values too
// (clients historically wrote free-form text such as
// "Waiting for approval from Client").
const (
	StatusAssigned  = "ASSIGNED"
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityUrgent, PriorityImportant, PriorityDaily:
		return true
	}
	return false
}

type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TaskName     string     `gorm:"size:300;not null" json:"task_name"`
	Description  string     `gorm:"type:text" json:"description"`
	Priority     string     `gorm:"size:50;not null" json:"priority"`
	Status       string     `gorm:"size:50;not null;default:'ASSIGNED'" json:"status"`
	DepartmentID uint       `gorm:"not null" json:"department_id"`
	CreatedByID  uint       `gorm:"not null" json:"created_by_id"`
	ClientName   string     `gorm:"size:200" json:"client_name"`
	Deadline     *time.Time `json:"deadline"`
	Remark       string     `gorm:"type:text" json:"remark"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Assignments           []TaskAssignment           `gorm:"constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Subtasks              []Subtask                  `gorm:"constraint:OnDelete:CASCADE" json:"subtasks,omitempty"`
	DepartmentAssignments []TaskDepartmentAssignment `gorm:"constraint:OnDelete:CASCADE" json:"department_assignments,omitempty"`
	DepartmentCompletions []DepartmentTaskCompletion `gorm:"constraint:OnDelete:CASCADE" json:"department_completions,omitempty"`
	ApprovalRequests      []TaskApprovalRequest      `gorm:"constraint:OnDelete:CASCADE" json:"approval_requests,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

type Subtask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"not null;index" json:"task_id"`
	SubtaskName string    `gorm:"size:300;not null" json:"subtask_name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:50;not null;default:'PENDING'" json:"status"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Subtask) TableName() string {
	return "subtasks"
}

// TaskAssignment records that a specific user must act on a task.
// The composite unique index keeps a user from being assigned twice.
type TaskAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       uint      `gorm:"not null;uniqueIndex:uniq_task_user" json:"task_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:uniq_task_user" json:"user_id"`
	AssignedByID uint      `gorm:"not null" json:"assigned_by_id"`
	AssignedAt   time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}

// TaskDepartmentAssignment records that a department is responsible for
// part of a task.
type TaskDepartmentAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       uint      `gorm:"not null;uniqueIndex:uniq_task_department" json:"task_id"`
	DepartmentID uint      `gorm:"not null;uniqueIndex:uniq_task_department" json:"department_id"`
	AssignedByID uint      `gorm:"not null" json:"assigned_by_id"`
	AssignedAt   time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (TaskDepartmentAssignment) TableName() string {
	return "task_department_assignments"
}

// DepartmentTaskCompletion tracks each assigned department's completion flag.
// Its lifecycle mirrors the matching TaskDepartmentAssignment.
type DepartmentTaskCompletion struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TaskID        uint       `gorm:"not null;uniqueIndex:uniq_task_department_completion" json:"task_id"`
	DepartmentID  uint       `gorm:"not null;uniqueIndex:uniq_task_department_completion" json:"department_id"`
	IsCompleted   bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	CompletedByID *uint      `json:"completed_by_id"`
}

func (DepartmentTaskCompletion) TableName() string {
	return "department_task_completions"
}
