package service

import (
	"context"
	"testing"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/testutil"
	"github.com/stretchr/testify/require"
)

func TestReplacementCreateRequiresAvailableDevice(t *testing.T) {
	db, repos, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateInRepair)
	reason := testutil.ReplacementReasonID(t, db, "FALLA")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	_, err = svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d2.ID,
		ReasonID:            reason,
		RegisteredByID:      user.ID,
	})
	require.Error(t, err)
	require.Equal(t, KindIneligible, errKind(t, err))

	// Nothing moved: assignment still active, original device still assigned
	got, err := svc.Assignment.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive())
	device, err := repos.Device.FindByID(ctx, d1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAssigned, device.State.Code)
}

func TestReplacementRejectsSelfReplacement(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	reason := testutil.ReplacementReasonID(t, db, "FALLA")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	_, err = svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d1.ID,
		ReasonID:            reason,
		RegisteredByID:      user.ID,
	})
	require.Error(t, err)
	require.Equal(t, KindValidation, errKind(t, err))
}

func TestReplacementExecuteSwapsDevices(t *testing.T) {
	db, repos, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateAvailable)
	reason := testutil.ReplacementReasonID(t, db, "FALLA")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	rep, err := svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d2.ID,
		ReasonID:            reason,
		ReasonDetail:        "pantalla rota",
		RegisteredByID:      user.ID,
	})
	require.NoError(t, err)
	require.True(t, rep.IsPending())
	require.Equal(t, d1.ID, rep.OriginalDeviceID)

	executed, err := svc.Replacement.Execute(ctx, rep.ID, user.ID)
	require.NoError(t, err)
	require.True(t, executed.IsCompleted())
	require.NotNil(t, executed.ReplacedAt)

	// Original assignment closed, original device freed
	oldAssignment, err := svc.Assignment.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.AssignmentStateReturned, oldAssignment.State.Code)
	require.NotNil(t, oldAssignment.ReturnedAt)
	device1, err := repos.Device.FindByID(ctx, d1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAvailable, device1.State.Code)

	// Exactly one active assignment remains, on the replacement device
	active, err := svc.Assignment.ListActiveByEmployee(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, d2.ID, active[0].DeviceID)
	device2, err := repos.Device.FindByID(ctx, d2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAssigned, device2.State.Code)

	// Two audit entries: replacement on the old device, assignment on the new
	_, totalOld, err := svc.Movement.ListByDevice(ctx, d1.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, totalOld)
	movementsNew, totalNew, err := svc.Movement.ListByDevice(ctx, d2.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, totalNew)
	require.Equal(t, entity.MovementAssignment, movementsNew[0].MovementType.Code)
}

func TestReplacementExecuteOnlyWhilePending(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateAvailable)
	reason := testutil.ReplacementReasonID(t, db, "ACTUALIZACION")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	rep, err := svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d2.ID,
		ReasonID:            reason,
		RegisteredByID:      user.ID,
	})
	require.NoError(t, err)

	_, err = svc.Replacement.Execute(ctx, rep.ID, user.ID)
	require.NoError(t, err)

	// Completed is terminal
	_, err = svc.Replacement.Execute(ctx, rep.ID, user.ID)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))

	err = svc.Replacement.Cancel(ctx, rep.ID, "ya no aplica")
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}

func TestReplacementCancelKeepsAssignment(t *testing.T) {
	db, repos, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateAvailable)
	reason := testutil.ReplacementReasonID(t, db, "FALLA")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	rep, err := svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d2.ID,
		ReasonID:            reason,
		ReasonDetail:        "falla intermitente",
		RegisteredByID:      user.ID,
	})
	require.NoError(t, err)

	err = svc.Replacement.Cancel(ctx, rep.ID, "se reparó el equipo")
	require.NoError(t, err)

	got, err := svc.Replacement.Get(ctx, rep.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ReplacementStateCancelled, got.State.Code)
	require.Contains(t, got.ReasonDetail, "Cancelado: se reparó el equipo")

	// Assignment untouched, replacement device never taken
	assignment, err := svc.Assignment.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.True(t, assignment.IsActive())
	device2, err := repos.Device.FindByID(ctx, d2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAvailable, device2.State.Code)
}

func TestReplacementExecuteFailsIfAssignmentClosed(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateAvailable)
	reason := testutil.ReplacementReasonID(t, db, "FALLA")

	a1, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d1.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	rep, err := svc.Replacement.Create(ctx, &CreateReplacementInput{
		AssignmentID:        a1.ID,
		ReplacementDeviceID: d2.ID,
		ReasonID:            reason,
		RegisteredByID:      user.ID,
	})
	require.NoError(t, err)

	// Assignment returned out of band before the replacement runs
	_, err = svc.Assignment.Return(ctx, a1.ID, "", user.ID)
	require.NoError(t, err)

	_, err = svc.Replacement.Execute(ctx, rep.ID, user.ID)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}
