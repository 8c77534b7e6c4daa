package dto

type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Username     string `json:"username" binding:"required"`
	FullName     string `json:"full_name" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
}

type CreateTeamMemberRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
