package handler

import (
	"net/http"
	"testing"

	"github.com/bluepine/itam/internal/assets/testutil"
)

func TestCatalogReadEndpoints(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	token := testutil.GenerateTestToken(user.ID, "Operator", "op@test.com", []string{"itam_operator"})

	for _, path := range []string{
		"/api/v1/catalogs/device-states",
		"/api/v1/catalogs/return-conditions",
		"/api/v1/catalogs/replacement-reasons",
		"/api/v1/catalogs/brands",
		"/api/v1/catalogs/device-types",
	} {
		w := testutil.DoRequest(env.Router, "GET", path, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/catalogs/device-states", nil, token)
	states := testutil.ParseResponse(w)["data"].([]interface{})
	if len(states) != 4 {
		t.Errorf("Expected 4 seeded device states, got %d", len(states))
	}
}

func TestCatalogWritesRequireAdminRole(t *testing.T) {
	env := setupAPITest(t)
	user := testutil.SeedUser(t, env.DB, "operator")
	operatorToken := testutil.GenerateTestToken(user.ID, "Operator", "op@test.com", []string{"itam_operator"})
	adminToken := testutil.DefaultTestToken(user.ID)

	body := map[string]interface{}{"code": "HP", "name": "HP"}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/catalogs/brands", body, operatorToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for a non-admin, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/catalogs/brands", body, adminToken)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for an admin, got %d: %s", w2.Code, w2.Body.String())
	}

	// Duplicate brand code
	w3 := testutil.DoRequest(env.Router, "POST", "/api/v1/catalogs/brands", body, adminToken)
	if w3.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w3.Code, w3.Body.String())
	}
}
