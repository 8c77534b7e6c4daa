package dto

// AssignTargetRequest is one (target, kind) pair of an assignment request.
type AssignTargetRequest struct {
	ID   uint   `json:"id" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

type CreateTaskRequest struct {
	TaskName     string                `json:"task_name" binding:"required"`
	Description  string                `json:"description"`
	Priority     string                `json:"priority" binding:"required"`
	DepartmentID uint                  `json:"department_id" binding:"required"`
	ClientName   string                `json:"client_name"`
	Deadline     string                `json:"deadline"`
	Remark       string                `json:"remark"`
	Targets      []AssignTargetRequest `json:"targets"`
}

type UpdateTaskRequest struct {
	TaskName     string `json:"task_name" binding:"required"`
	Description  string `json:"description"`
	Priority     string `json:"priority" binding:"required"`
	DepartmentID uint   `json:"department_id" binding:"required"`
	ClientName   string `json:"client_name"`
	Deadline     string `json:"deadline"`
	Remark       string `json:"remark"`
}

type AssignTaskRequest struct {
	Targets []AssignTargetRequest `json:"targets"`
}

type ReassignDepartmentsRequest struct {
	DepartmentIDs []uint `json:"department_ids"`
}

type CreateTeamTaskRequest struct {
	TaskName    string `json:"task_name" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required"`
	ClientName  string `json:"client_name"`
	Deadline    string `json:"deadline"`
	Remark      string `json:"remark"`
	MemberIDs   []uint `json:"member_ids"`
}

type ForwardTaskRequest struct {
	MemberIDs []uint `json:"member_ids" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ToggleCompletionRequest struct {
	DepartmentID uint `json:"department_id"`
}

type CreateSubtaskRequest struct {
	SubtaskName string `json:"subtask_name" binding:"required"`
	Description string `json:"description"`
}
