package dto

type RequestReassignRequest struct {
	NewDeptHeadID uint `json:"new_dept_head_id" binding:"required"`
}

type RequestDepartmentsRequest struct {
	DepartmentIDs []uint `json:"department_ids" binding:"required"`
}

type ResolveApprovalRequest struct {
	Notes string `json:"notes"`
}
