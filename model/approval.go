package model

import (
	"strconv"
	"strings"
	"time"
)

// Approval request types.
const (
	ApprovalTypeReassign          = "reassign"
	ApprovalTypeAssignDepartments = "assign_departments"
)

// Approval request statuses. A resolved request never changes again.
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// TaskApprovalRequest records a department head's proposed change to a task,
// pending admin ratification.
type TaskApprovalRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TaskID        uint       `gorm:"not null;index" json:"task_id"`
	RequestType   string     `gorm:"size:50;not null" json:"request_type"`
	Status        string     `gorm:"size:50;not null;default:'PENDING'" json:"status"`
	RequestedByID uint       `gorm:"not null" json:"requested_by_id"`
	NewDeptHeadID *uint      `json:"new_dept_head_id"`
	DepartmentIDs string     `gorm:"size:500" json:"department_ids"`
	AdminNotes    string     `gorm:"type:text" json:"admin_notes"`
	ResolvedByID  *uint      `json:"resolved_by_id"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (TaskApprovalRequest) TableName() string {
	return "task_approval_requests"
}

// SerializeDepartmentIDs joins department ids for the DepartmentIDs column.
func SerializeDepartmentIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}

// ParseDepartmentIDs decodes the DepartmentIDs column. Malformed entries are
// skipped rather than failing the whole request.
func ParseDepartmentIDs(s string) []uint {
	if s == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids
}
