package service

import (
	"context"
	"testing"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateReturnRequestValidatesDates(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)

	end := time.Now().AddDate(0, 0, 10)
	_, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end.AddDate(0, 0, -3),
		RequestedByID:   user.ID,
	})
	require.Error(t, err)
	require.Equal(t, KindValidation, errKind(t, err))

	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)
	require.True(t, req.IsPending())
}

func TestAddItemRequiresActiveAssignmentOfEmployee(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	e1 := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	e2 := testutil.SeedEmployee(t, db, "E002", entity.EmployeeStateActive)
	d1 := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	d2 := testutil.SeedDevice(t, db, "AST-002", entity.DeviceStateAvailable)
	condition := testutil.ReturnConditionID(t, db, entity.ReturnConditionGood)

	// d2 assigned to the OTHER employee; d1 not assigned at all
	_, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: d2.ID, EmployeeID: e2.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      e1.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	_, err = svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: d1.ID, ConditionID: condition})
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))

	_, err = svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: d2.ID, ConditionID: condition})
	require.Error(t, err)
	require.Equal(t, KindIneligible, errKind(t, err))
}

func TestAddItemRejectsDuplicateDevice(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	condition := testutil.ReturnConditionID(t, db, entity.ReturnConditionGood)

	assignment, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: device.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	item, err := svc.Return.AddItem(ctx, req.ID, &AddItemInput{
		DeviceID: device.ID, ConditionID: condition, Notes: "con cargador",
	})
	require.NoError(t, err)
	require.Equal(t, assignment.ID, item.AssignmentID)

	_, err = svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: device.ID, ConditionID: condition})
	require.Error(t, err)
	require.Equal(t, KindConflict, errKind(t, err))

	got, err := svc.Return.Get(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.DeviceCount())
}

func TestCompleteRequiresItems(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	_, err = svc.Return.Complete(ctx, req.ID, user.ID)
	require.Error(t, err)
	require.Equal(t, KindValidation, errKind(t, err))

	got, err := svc.Return.Get(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, got.IsPending())
}

func TestCompleteDoesNotCloseAssignments(t *testing.T) {
	db, repos, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	condition := testutil.ReturnConditionID(t, db, entity.ReturnConditionGood)

	assignment, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: device.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)
	_, err = svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: device.ID, ConditionID: condition})
	require.NoError(t, err)

	completed, err := svc.Return.Complete(ctx, req.ID, user.ID)
	require.NoError(t, err)
	require.True(t, completed.IsCompleted())
	require.NotNil(t, completed.ActualDate)
	require.NotNil(t, completed.ReceivedByID)

	// Collection is recorded, but the ledger entry stays open until the
	// device is returned through the assignment ledger
	got, err := svc.Assignment.Get(ctx, assignment.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive())
	deviceNow, err := repos.Device.FindByID(ctx, device.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAssigned, deviceNow.State.Code)
}

func TestItemsFrozenAfterCompletion(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	good := testutil.ReturnConditionID(t, db, entity.ReturnConditionGood)
	damaged := testutil.ReturnConditionID(t, db, entity.ReturnConditionDamaged)

	_, err := svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: device.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.NoError(t, err)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)
	item, err := svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: device.ID, ConditionID: good})
	require.NoError(t, err)

	// Condition can still change while pending
	updated, err := svc.Return.UpdateItem(ctx, item.ID, damaged, "golpe en la tapa")
	require.NoError(t, err)
	require.Equal(t, damaged, updated.ConditionID)

	_, err = svc.Return.Complete(ctx, req.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Return.UpdateItem(ctx, item.ID, good, "")
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))

	err = svc.Return.RemoveItem(ctx, item.ID)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))

	_, err = svc.Return.AddItem(ctx, req.ID, &AddItemInput{DeviceID: device.ID, ConditionID: good})
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}

func TestReturnRequestCancelAppendsReason(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		Notes:           "salida programada",
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	err = svc.Return.Cancel(ctx, req.ID, "empleado retiene equipo")
	require.NoError(t, err)

	got, err := svc.Return.Get(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RequestStateCancelled, got.State.Code)
	require.Contains(t, got.Notes, "salida programada")
	require.Contains(t, got.Notes, "Cancelado: empleado retiene equipo")

	// Cancelled is terminal
	_, err = svc.Return.Complete(ctx, req.ID, user.ID)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}

func TestOverdueRequests(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)

	past := time.Now().AddDate(0, 0, -10)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: past,
		ScheduledDate:   past.AddDate(0, 0, 2),
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	overdue, err := svc.Return.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, req.ID, overdue[0].ID)
	require.True(t, overdue[0].IsOverdue())
}

func TestUpdateRequestReschedules(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E001", entity.EmployeeStateActive)

	end := time.Now().AddDate(0, 0, 5)
	req, err := svc.Return.CreateRequest(ctx, &CreateReturnRequestInput{
		EmployeeID:      employee.ID,
		EmployeeEndDate: end,
		ScheduledDate:   end,
		RequestedByID:   user.ID,
	})
	require.NoError(t, err)

	// Pickup cannot be rescheduled to before the end date
	_, err = svc.Return.UpdateRequest(ctx, req.ID, &UpdateRequestInput{
		ScheduledDate: end.AddDate(0, 0, -2),
	})
	require.Error(t, err)
	require.Equal(t, KindValidation, errKind(t, err))

	updated, err := svc.Return.UpdateRequest(ctx, req.ID, &UpdateRequestInput{
		ScheduledDate: end.AddDate(0, 0, 3),
		Notes:         "reprogramado por mudanza",
	})
	require.NoError(t, err)
	require.True(t, updated.ScheduledDate.After(end))
	require.Equal(t, "reprogramado por mudanza", updated.Notes)

	// Cancelled requests are frozen
	require.NoError(t, svc.Return.Cancel(ctx, req.ID, "ya no aplica"))
	_, err = svc.Return.UpdateRequest(ctx, req.ID, &UpdateRequestInput{
		ScheduledDate: end.AddDate(0, 0, 4),
	})
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}
