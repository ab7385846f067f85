package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/testutil"
)

func TestReturnRequestWorkflowOverHTTP(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	token := testutil.DefaultTestToken(user.ID)

	employee := testutil.SeedEmployee(t, env.DB, "E100", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, env.DB, "AST-001", entity.DeviceStateAvailable)

	// The employee must hold the device before it can be scheduled for return
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/assignments",
		map[string]interface{}{"device_id": device.ID, "employee_id": employee.ID}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	endDate := time.Now().AddDate(0, 0, 7).Format(time.RFC3339)
	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/returns",
		map[string]interface{}{
			"employee_id":       employee.ID,
			"employee_end_date": endDate,
			"scheduled_date":    endDate,
			"notes":             "baja programada",
		}, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w2.Code, w2.Body.String())
	}
	requestID := uint(testutil.ParseResponse(w2)["data"].(map[string]interface{})["id"].(float64))

	// An empty request cannot be completed
	w3 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/returns/%d/complete", requestID),
		map[string]interface{}{}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 completing an empty request, got %d: %s", w3.Code, w3.Body.String())
	}

	conditionID := testutil.ReturnConditionID(t, env.DB, entity.ReturnConditionGood)
	w4 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/returns/%d/items", requestID),
		map[string]interface{}{"device_id": device.ID, "condition_id": conditionID}, token)
	if w4.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w4.Code, w4.Body.String())
	}

	// Same device cannot be listed twice
	w5 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/returns/%d/items", requestID),
		map[string]interface{}{"device_id": device.ID, "condition_id": conditionID}, token)
	if w5.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w5.Code, w5.Body.String())
	}

	w6 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/returns/%d/complete", requestID),
		map[string]interface{}{}, token)
	if w6.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w6.Code, w6.Body.String())
	}

	// Completion freezes the checklist
	itemID := uint(testutil.ParseResponse(w4)["data"].(map[string]interface{})["id"].(float64))
	w7 := testutil.DoRequest(env.Router, "DELETE",
		fmt.Sprintf("/api/v1/returns/items/%d", itemID), nil, token)
	if w7.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 removing an item after completion, got %d: %s", w7.Code, w7.Body.String())
	}
}

func TestReturnRequestScheduleValidation(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	token := testutil.DefaultTestToken(user.ID)

	employee := testutil.SeedEmployee(t, env.DB, "E100", entity.EmployeeStateActive)

	end := time.Now().AddDate(0, 0, 7)
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/returns",
		map[string]interface{}{
			"employee_id":       employee.ID,
			"employee_end_date": end.Format(time.RFC3339),
			"scheduled_date":    end.AddDate(0, 0, -3).Format(time.RFC3339),
		}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a pickup before the end date, got %d: %s", w.Code, w.Body.String())
	}
	if respCode(testutil.ParseResponse(w)) != 40000 {
		t.Errorf("Expected envelope code 40000, got %s", w.Body.String())
	}
}
