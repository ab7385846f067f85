package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/testutil"
)

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	token := testutil.DefaultTestToken(user.ID)

	employee := testutil.SeedEmployee(t, env.DB, "E100", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, env.DB, "AST-001", entity.DeviceStateAvailable)

	// Assign
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/assignments",
		map[string]interface{}{
			"device_id":   device.ID,
			"employee_id": employee.ID,
			"notes":       "equipo de onboarding",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	assignmentID := uint(data["id"].(float64))
	if data["assigned_by_id"].(float64) != float64(user.ID) {
		t.Errorf("Expected assigned_by to default to the token user, got %v", data["assigned_by_id"])
	}

	// Second assignment of the same device conflicts
	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/assignments",
		map[string]interface{}{
			"device_id":   device.ID,
			"employee_id": employee.ID,
		}, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w2.Code, w2.Body.String())
	}
	if respCode(testutil.ParseResponse(w2)) != 40900 {
		t.Errorf("Expected envelope code 40900, got %s", w2.Body.String())
	}

	// Movement trail is visible on the device
	w3 := testutil.DoRequest(env.Router, "GET",
		fmt.Sprintf("/api/v1/devices/%d/movements", device.ID), nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	movements := testutil.ParseResponse(w3)["data"].([]interface{})
	if len(movements) != 1 {
		t.Fatalf("Expected 1 movement, got %d", len(movements))
	}

	// Return
	w4 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/assignments/%d/return", assignmentID),
		map[string]interface{}{"notes": "entregado completo"}, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w4.Code, w4.Body.String())
	}

	// The device is assignable again
	w5 := testutil.DoRequest(env.Router, "GET", "/api/v1/devices/available", nil, token)
	if w5.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w5.Code, w5.Body.String())
	}
	available := testutil.ParseResponse(w5)["data"].([]interface{})
	found := false
	for _, d := range available {
		if d.(map[string]interface{})["asset_code"] == "AST-001" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected AST-001 in the available list: %s", w5.Body.String())
	}

	// Returning twice fails
	w6 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/assignments/%d/return", assignmentID),
		map[string]interface{}{"notes": "otra vez"}, token)
	if w6.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w6.Code, w6.Body.String())
	}
}

func TestAssignmentErrorEnvelopes(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	token := testutil.DefaultTestToken(user.ID)

	// Unknown assignment
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/assignments/9999", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if respCode(testutil.ParseResponse(w)) != 40400 {
		t.Errorf("Expected envelope code 40400, got %s", w.Body.String())
	}

	// Malformed id
	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/assignments/abc", nil, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w2.Code, w2.Body.String())
	}

	// Missing body fields
	w3 := testutil.DoRequest(env.Router, "POST", "/api/v1/assignments",
		map[string]interface{}{"notes": "sin dispositivo"}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w3.Code, w3.Body.String())
	}

	// Cancel requires a reason
	employee := testutil.SeedEmployee(t, env.DB, "E100", entity.EmployeeStateActive)
	device := testutil.SeedDevice(t, env.DB, "AST-001", entity.DeviceStateAvailable)
	w4 := testutil.DoRequest(env.Router, "POST", "/api/v1/assignments",
		map[string]interface{}{"device_id": device.ID, "employee_id": employee.ID}, token)
	if w4.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w4.Code, w4.Body.String())
	}
	id := uint(testutil.ParseResponse(w4)["data"].(map[string]interface{})["id"].(float64))
	w5 := testutil.DoRequest(env.Router, "POST",
		fmt.Sprintf("/api/v1/assignments/%d/cancel", id),
		map[string]interface{}{}, token)
	if w5.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w5.Code, w5.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupAPITest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/devices", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/devices", nil, "not-a-token")
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 with a garbage token, got %d", w2.Code)
	}
}
