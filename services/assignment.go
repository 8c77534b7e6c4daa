package services

import (
	"fmt"
	"log"
	"taskhub/model"

	"gorm.io/gorm"
)

// Target kinds accepted by AssignTargets.
const (
	TargetUser       = "user"
	TargetDepartment = "department"
)

// AssignTarget is one entry of an assignment request.
type AssignTarget struct {
	ID   uint
	Kind string
}

// ReplaceUserAssignments applies a diff-based replace of the task's user
// assignments against the desired set: rows no longer desired are deleted,
// newly desired ones inserted, unchanged assignees untouched (their
// notification history survives). Returns the IDs of newly assigned users so
// the caller can notify them after commit.
func ReplaceUserAssignments(tx *gorm.DB, task *model.Task, userIDs []uint, actorID uint) ([]uint, error) {
	desired := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		desired[id] = true
	}

	var current []model.TaskAssignment
	if err := tx.Where("task_id = ?", task.ID).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	existing := make(map[uint]bool, len(current))
	for _, a := range current {
		existing[a.UserID] = true
		if !desired[a.UserID] {
			if err := tx.Delete(&model.TaskAssignment{}, a.ID).Error; err != nil {
				return nil, fmt.Errorf("delete assignment: %w", err)
			}
		}
	}

	var added []uint
	for _, id := range userIDs {
		if existing[id] {
			continue
		}
		existing[id] = true // guard against repeated targets in one request
		assignment := model.TaskAssignment{
			TaskID:       task.ID,
			UserID:       id,
			AssignedByID: actorID,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return nil, fmt.Errorf("create assignment: %w", err)
		}
		added = append(added, id)
	}
	return added, nil
}

// AddUserAssignments assigns additional users without touching existing
// assignments (the forward-task path). Duplicate targets are skipped.
func AddUserAssignments(tx *gorm.DB, task *model.Task, userIDs []uint, actorID uint) ([]uint, error) {
	var added []uint
	for _, id := range userIDs {
		var count int64
		err := tx.Model(&model.TaskAssignment{}).
			Where("task_id = ? AND user_id = ?", task.ID, id).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("check assignment: %w", err)
		}
		if count > 0 {
			continue
		}
		assignment := model.TaskAssignment{
			TaskID:       task.ID,
			UserID:       id,
			AssignedByID: actorID,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return nil, fmt.Errorf("create assignment: %w", err)
		}
		added = append(added, id)
	}
	return added, nil
}

// assignDepartment attaches one department to the task: the department
// assignment row, its paired completion record (always created together),
// and the department head's user assignment when a head exists. A headless
// department is assigned without an assignee.
func assignDepartment(tx *gorm.DB, task *model.Task, deptID uint, actorID uint) ([]uint, error) {
	deptAssignment := model.TaskDepartmentAssignment{
		TaskID:       task.ID,
		DepartmentID: deptID,
		AssignedByID: actorID,
	}
	if err := tx.Create(&deptAssignment).Error; err != nil {
		return nil, fmt.Errorf("create department assignment: %w", err)
	}
	completion := model.DepartmentTaskCompletion{
		TaskID:       task.ID,
		DepartmentID: deptID,
		IsCompleted:  false,
	}
	if err := tx.Create(&completion).Error; err != nil {
		return nil, fmt.Errorf("create completion record: %w", err)
	}

	head, err := FindDepartmentHead(tx, deptID)
	if err == ErrNotFound {
		log.Printf("department %d has no head; task %d assigned without assignee", deptID, task.ID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return AddUserAssignments(tx, task, []uint{head.ID}, actorID)
}

// ReplaceDepartmentAssignments applies a diff-based replace of the task's
// department set. Removing a department also removes its completion record;
// adding one creates both and auto-assigns the department head. The task's
// status is recomputed afterward since the completion precondition changed.
func ReplaceDepartmentAssignments(tx *gorm.DB, task *model.Task, deptIDs []uint, actorID uint) ([]uint, error) {
	desired := make(map[uint]bool, len(deptIDs))
	for _, id := range deptIDs {
		desired[id] = true
	}

	var current []model.TaskDepartmentAssignment
	if err := tx.Where("task_id = ?", task.ID).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("load department assignments: %w", err)
	}
	existing := make(map[uint]bool, len(current))
	changed := false
	for _, a := range current {
		existing[a.DepartmentID] = true
		if desired[a.DepartmentID] {
			continue
		}
		changed = true
		if err := tx.Delete(&model.TaskDepartmentAssignment{}, a.ID).Error; err != nil {
			return nil, fmt.Errorf("delete department assignment: %w", err)
		}
		err := tx.Where("task_id = ? AND department_id = ?", task.ID, a.DepartmentID).
			Delete(&model.DepartmentTaskCompletion{}).Error
		if err != nil {
			return nil, fmt.Errorf("delete completion record: %w", err)
		}
	}

	var added []uint
	for _, id := range deptIDs {
		if existing[id] {
			continue
		}
		existing[id] = true
		changed = true
		heads, err := assignDepartment(tx, task, id, actorID)
		if err != nil {
			return nil, err
		}
		added = append(added, heads...)
	}

	if changed {
		if err := RecomputeStatus(tx, task); err != nil {
			return nil, err
		}
	}
	return added, nil
}

// AssignTargets translates a mixed user/department target list into
// assignment records with replace semantics. An empty target list clears
// nothing and creates nothing. Targets are validated before any mutation.
func AssignTargets(tx *gorm.DB, task *model.Task, targets []AssignTarget, actorID uint) ([]uint, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	var userIDs, deptIDs []uint
	for _, t := range targets {
		if t.ID == 0 {
			return nil, fmt.Errorf("%w: target id is required", ErrValidation)
		}
		switch t.Kind {
		case TargetUser:
			userIDs = append(userIDs, t.ID)
		case TargetDepartment:
			deptIDs = append(deptIDs, t.ID)
		default:
			return nil, fmt.Errorf("%w: unknown target kind %q", ErrValidation, t.Kind)
		}
	}
	for _, id := range userIDs {
		if err := mustExist(tx, &model.User{}, id, "user"); err != nil {
			return nil, err
		}
	}
	for _, id := range deptIDs {
		if err := mustExist(tx, &model.Department{}, id, "department"); err != nil {
			return nil, err
		}
	}

	// Heads of the desired departments belong to the desired user set too,
	// otherwise the user replace would strip an auto-assigned head whenever
	// the same targets are submitted again.
	desiredUsers := userIDs
	for _, id := range deptIDs {
		head, err := FindDepartmentHead(tx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		desiredUsers = append(desiredUsers, head.ID)
	}

	added, err := ReplaceUserAssignments(tx, task, desiredUsers, actorID)
	if err != nil {
		return nil, err
	}
	heads, err := ReplaceDepartmentAssignments(tx, task, deptIDs, actorID)
	if err != nil {
		return nil, err
	}
	return append(added, heads...), nil
}

func mustExist(tx *gorm.DB, dest interface{}, id uint, kind string) error {
	var count int64
	if err := tx.Model(dest).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", kind, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return nil
}
