package services

import (
	"context"
	"taskhub/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAssignmentNoDevices(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db, "Design")
	admin := createUser(t, db, "admin@x.test", model.RoleAdmin, nil)
	alice := createUser(t, db, "alice@x.test", model.RoleTeamMember, &dept.ID)
	task := createTask(t, db, dept.ID, admin.ID)

	notifier := NewNotifier(db, nil)
	assert.False(t, notifier.NotifyAssignment(context.Background(), alice.ID, task, admin))
}

func TestNotifyAssignmentDisabledClient(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db, "Design")
	admin := createUser(t, db, "admin@x.test", model.RoleAdmin, nil)
	alice := createUser(t, db, "alice@x.test", model.RoleTeamMember, &dept.ID)
	task := createTask(t, db, dept.ID, admin.ID)
	require.NoError(t, db.Create(&model.FCMDevice{
		ID:       "11111111-1111-1111-1111-111111111111",
		UserID:   alice.ID,
		FCMToken: "tok-1",
	}).Error)

	// A nil messaging client means every attempt is a logged no-op.
	notifier := NewNotifier(db, nil)
	assert.False(t, notifier.NotifyAssignment(context.Background(), alice.ID, task, admin))
}

func TestNotifyAllSkipsActor(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db, "Design")
	admin := createUser(t, db, "admin@x.test", model.RoleAdmin, nil)
	task := createTask(t, db, dept.ID, admin.ID)

	// Must not panic or attempt delivery for the actor's own id.
	notifier := NewNotifier(db, nil)
	notifier.NotifyAll(context.Background(), []uint{admin.ID}, task, admin)
}
