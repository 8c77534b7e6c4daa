package connection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "test-refresh-secret")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	notifier := services.NewNotifier(db, nil)
	return db, SetupRouter(db, notifier)
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, role model.Role, deptID *uint) *model.User {
	t.Helper()
	hash, err := services.HashPassword(password)
	require.NoError(t, err)
	user := model.User{
		Email:        email,
		Username:     email,
		PasswordHash: hash,
		FullName:     email,
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()
	dept := model.Department{Name: name}
	require.NoError(t, db.Create(&dept).Error)
	return &dept
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := services.CreateAccessToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthRoute(t *testing.T) {
	_, router := setupTestServer(t)
	w := doRequest(router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignin(t *testing.T) {
	db, router := setupTestServer(t)
	seedUser(t, db, "admin@x.test", "secret123", model.RoleAdmin, nil)

	w := doRequest(router, http.MethodPost, "/auth/signin", "", gin.H{
		"email": "admin@x.test", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "admin", body["role"])
	tokens := body["token"].(map[string]interface{})
	assert.NotEmpty(t, tokens["accessToken"])
	assert.NotEmpty(t, tokens["refreshToken"])

	w = doRequest(router, http.MethodPost, "/auth/signin", "", gin.H{
		"email": "admin@x.test", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	db, router := setupTestServer(t)
	dept := seedDepartment(t, db, "Design")
	member := seedUser(t, db, "member@x.test", "pw", model.RoleTeamMember, &dept.ID)

	w := doRequest(router, http.MethodGet, "/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/admin/dashboard", tokenFor(t, member), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDuplicateDepartmentNameConflicts(t *testing.T) {
	db, router := setupTestServer(t)
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	token := tokenFor(t, admin)

	w := doRequest(router, http.MethodPost, "/admin/departments", token, gin.H{"name": "Design"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, http.MethodPost, "/admin/departments", token, gin.H{"name": "Design"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSecondDepartmentHeadConflicts(t *testing.T) {
	db, router := setupTestServer(t)
	dept := seedDepartment(t, db, "Design")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &dept.ID)

	w := doRequest(router, http.MethodPost, "/admin/users", tokenFor(t, admin), gin.H{
		"email": "head2@x.test", "username": "head2", "full_name": "Second Head",
		"password": "pw", "role": "department_head", "department_id": dept.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// Creating an urgent task aimed at a headed department must produce exactly
// one department assignment, one open completion record and one head
// assignment.
func TestCreateUrgentTaskForDepartment(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	head := seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &accounts.ID)

	w := doRequest(router, http.MethodPost, "/admin/tasks", tokenFor(t, admin), gin.H{
		"task_name":     "Fix invoice run",
		"priority":      model.PriorityUrgent,
		"department_id": design.ID,
		"targets":       []gin.H{{"id": accounts.ID, "kind": "department"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	taskID := uint(body["task"].(map[string]interface{})["id"].(float64))

	var deptAssignments, completions, assignments int64
	db.Model(&model.TaskDepartmentAssignment{}).Where("task_id = ?", taskID).Count(&deptAssignments)
	db.Model(&model.DepartmentTaskCompletion{}).Where("task_id = ?", taskID).Count(&completions)
	db.Model(&model.TaskAssignment{}).Where("task_id = ? AND user_id = ?", taskID, head.ID).Count(&assignments)
	assert.EqualValues(t, 1, deptAssignments)
	assert.EqualValues(t, 1, completions)
	assert.EqualValues(t, 1, assignments)

	var completion model.DepartmentTaskCompletion
	require.NoError(t, db.Where("task_id = ?", taskID).First(&completion).Error)
	assert.False(t, completion.IsCompleted)
}

func TestDeleteTaskCascades(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	head := seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &accounts.ID)
	token := tokenFor(t, admin)

	w := doRequest(router, http.MethodPost, "/admin/tasks", token, gin.H{
		"task_name":     "Quarterly close",
		"priority":      model.PriorityImportant,
		"department_id": design.ID,
		"targets":       []gin.H{{"id": accounts.ID, "kind": "department"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	w = doRequest(router, http.MethodPost, fmt.Sprintf("/tasks/%d/subtasks", taskID), token,
		gin.H{"subtask_name": "Collect receipts"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/dept-head/tasks/%d/request-reassign", taskID),
		tokenFor(t, head), gin.H{"new_dept_head_id": head.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/admin/tasks/%d", taskID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, child := range []interface{}{
		&model.Subtask{},
		&model.TaskAssignment{},
		&model.TaskDepartmentAssignment{},
		&model.DepartmentTaskCompletion{},
		&model.TaskApprovalRequest{},
	} {
		var count int64
		db.Model(child).Where("task_id = ?", taskID).Count(&count)
		assert.Zero(t, count)
	}
}

func TestToggleCompletionEndpoint(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	head := seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &accounts.ID)

	w := doRequest(router, http.MethodPost, "/admin/tasks", tokenFor(t, admin), gin.H{
		"task_name":     "Print brochures",
		"priority":      model.PriorityDaily,
		"department_id": design.ID,
		"targets":       []gin.H{{"id": accounts.ID, "kind": "department"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	path := fmt.Sprintf("/dept-head/tasks/%d/toggle-completion", taskID)
	headToken := tokenFor(t, head)

	// A head may not act on behalf of another department.
	w = doRequest(router, http.MethodPost, path, headToken, gin.H{"department_id": design.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, path, headToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusCompleted, decodeBody(t, w)["status"])

	w = doRequest(router, http.MethodPost, path, headToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusAssigned, decodeBody(t, w)["status"])
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	designHead := seedUser(t, db, "design@x.test", "pw", model.RoleDepartmentHead, &design.ID)
	accountsHead := seedUser(t, db, "accounts@x.test", "pw", model.RoleDepartmentHead, &accounts.ID)
	adminToken := tokenFor(t, admin)

	w := doRequest(router, http.MethodPost, "/admin/tasks", adminToken, gin.H{
		"task_name":     "Rework logo",
		"priority":      model.PriorityImportant,
		"department_id": design.ID,
		"targets":       []gin.H{{"id": designHead.ID, "kind": "user"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/dept-head/tasks/%d/request-reassign", taskID),
		tokenFor(t, designHead), gin.H{"new_dept_head_id": accountsHead.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	reqID := uint(decodeBody(t, w)["request"].(map[string]interface{})["id"].(float64))

	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/admin/approvals/%d/approve", reqID), adminToken, gin.H{"notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code)

	var task model.Task
	require.NoError(t, db.First(&task, taskID).Error)
	assert.Equal(t, accounts.ID, task.DepartmentID)

	// Resolving twice is a conflict and changes nothing.
	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/admin/approvals/%d/approve", reqID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMemberStatusUpdateRunsAggregator(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	head := seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &accounts.ID)

	w := doRequest(router, http.MethodPost, "/admin/tasks", tokenFor(t, admin), gin.H{
		"task_name":     "Ship samples",
		"priority":      model.PriorityUrgent,
		"department_id": design.ID,
		"targets":       []gin.H{{"id": accounts.ID, "kind": "department"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	// The head is an assignee and may write a status, but the department
	// flags win: COMPLETED is reverted while Accounts is outstanding.
	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/team-member/tasks/%d/status", taskID),
		tokenFor(t, head), gin.H{"status": model.StatusCompleted})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusAssigned, decodeBody(t, w)["status"])

	var task model.Task
	require.NoError(t, db.First(&task, taskID).Error)
	assert.Equal(t, model.StatusAssigned, task.Status)
}

func TestMemberCannotUpdateUnassignedTask(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	admin := seedUser(t, db, "admin@x.test", "pw", model.RoleAdmin, nil)
	member := seedUser(t, db, "member@x.test", "pw", model.RoleTeamMember, &design.ID)

	w := doRequest(router, http.MethodPost, "/admin/tasks", tokenFor(t, admin), gin.H{
		"task_name":     "Internal audit",
		"priority":      model.PriorityImportant,
		"department_id": design.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/team-member/tasks/%d/status", taskID),
		tokenFor(t, member), gin.H{"status": model.StatusCompleted})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/tasks/%d", taskID),
		tokenFor(t, member), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeviceTokenLifecycle(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	alice := seedUser(t, db, "alice@x.test", "pw", model.RoleTeamMember, &design.ID)
	bob := seedUser(t, db, "bob@x.test", "pw", model.RoleTeamMember, &design.ID)

	w := doRequest(router, http.MethodPost, "/notifications/register-token",
		tokenFor(t, alice), gin.H{"fcm_token": "tok-1", "device_name": "Pixel"})
	require.Equal(t, http.StatusOK, w.Code)

	// Bob registering the same token reclaims the device.
	w = doRequest(router, http.MethodPost, "/notifications/register-token",
		tokenFor(t, bob), gin.H{"fcm_token": "tok-1"})
	require.Equal(t, http.StatusOK, w.Code)

	var device model.FCMDevice
	require.NoError(t, db.Where("fcm_token = ?", "tok-1").First(&device).Error)
	assert.Equal(t, bob.ID, device.UserID)
	var count int64
	db.Model(&model.FCMDevice{}).Count(&count)
	assert.EqualValues(t, 1, count)

	w = doRequest(router, http.MethodPost, "/notifications/remove-token",
		tokenFor(t, bob), gin.H{"fcm_token": "tok-1"})
	require.Equal(t, http.StatusOK, w.Code)
	db.Model(&model.FCMDevice{}).Count(&count)
	assert.Zero(t, count)
}

func TestForwardTaskOwnDepartmentOnly(t *testing.T) {
	db, router := setupTestServer(t)
	design := seedDepartment(t, db, "Design")
	accounts := seedDepartment(t, db, "Accounts")
	head := seedUser(t, db, "head@x.test", "pw", model.RoleDepartmentHead, &design.ID)
	member := seedUser(t, db, "member@x.test", "pw", model.RoleTeamMember, &design.ID)
	outsider := seedUser(t, db, "outsider@x.test", "pw", model.RoleTeamMember, &accounts.ID)
	headToken := tokenFor(t, head)

	w := doRequest(router, http.MethodPost, "/dept-head/tasks", headToken, gin.H{
		"task_name": "Mock up banner",
		"priority":  model.PriorityDaily,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["task"].(map[string]interface{})["id"].(float64))

	w = doRequest(router, http.MethodPost, fmt.Sprintf("/dept-head/tasks/%d/forward", taskID),
		headToken, gin.H{"member_ids": []uint{outsider.ID}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, fmt.Sprintf("/dept-head/tasks/%d/forward", taskID),
		headToken, gin.H{"member_ids": []uint{member.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["assigned_count"].(float64))

	// Forwarding again to the same member assigns nobody new.
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/dept-head/tasks/%d/forward", taskID),
		headToken, gin.H{"member_ids": []uint{member.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decodeBody(t, w)["assigned_count"].(float64))
}
