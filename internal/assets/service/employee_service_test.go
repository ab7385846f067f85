package service

import (
	"context"
	"testing"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/testutil"
	"github.com/stretchr/testify/require"
)

func TestEmployeeCreateDefaultsToActive(t *testing.T) {
	_, _, svc := setupServices(t)
	ctx := context.Background()

	employee, err := svc.Employee.Create(ctx, &CreateEmployeeInput{
		Code:       "E100",
		FirstName:  "María",
		LastName:   "García",
		Email:      "maria.garcia@test.com",
		AreaID:     1,
		JobTitleID: 1,
		SiteID:     1,
		HireDate:   time.Now().AddDate(0, -6, 0),
	})
	require.NoError(t, err)
	require.True(t, employee.IsActive())
	require.Equal(t, "María García", employee.FullName())
}

func TestEmployeeCreateRejectsDuplicates(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	testutil.SeedEmployee(t, db, "E100", entity.EmployeeStateActive)

	_, err := svc.Employee.Create(ctx, &CreateEmployeeInput{
		Code:       "E100",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan.perez@test.com",
		AreaID:     1,
		JobTitleID: 1,
		SiteID:     1,
		HireDate:   time.Now(),
	})
	require.Error(t, err)
	require.Equal(t, KindConflict, errKind(t, err))

	_, err = svc.Employee.Create(ctx, &CreateEmployeeInput{
		Code:       "E101",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "E100@test.com",
		AreaID:     1,
		JobTitleID: 1,
		SiteID:     1,
		HireDate:   time.Now(),
	})
	require.Error(t, err)
	require.Equal(t, KindConflict, errKind(t, err))
}

func TestEmployeeTerminate(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "operator")
	employee := testutil.SeedEmployee(t, db, "E100", entity.EmployeeStateActive)

	terminated, err := svc.Employee.Terminate(ctx, employee.ID, time.Now())
	require.NoError(t, err)
	require.False(t, terminated.IsActive())
	require.Equal(t, entity.EmployeeStateTerminated, terminated.State.Code)
	require.NotNil(t, terminated.TerminationDate)

	// Terminated employees no longer receive devices
	device := testutil.SeedDevice(t, db, "AST-001", entity.DeviceStateAvailable)
	_, err = svc.Assignment.Assign(ctx, &AssignInput{
		DeviceID: device.ID, EmployeeID: employee.ID, AssignedByID: user.ID,
	})
	require.Error(t, err)
	require.Equal(t, KindIneligible, errKind(t, err))

	// Termination is one-way
	_, err = svc.Employee.Terminate(ctx, employee.ID, time.Now())
	require.Error(t, err)
	require.Equal(t, KindInvalidState, errKind(t, err))
}

func TestEmployeeTerminateValidatesDate(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	employee := testutil.SeedEmployee(t, db, "E100", entity.EmployeeStateActive)

	_, err := svc.Employee.Terminate(ctx, employee.ID, employee.HireDate.AddDate(0, 0, -30))
	require.Error(t, err)
	require.Equal(t, KindValidation, errKind(t, err))
}
