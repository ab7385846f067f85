package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/bluepine/itam/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "itam-jwt-secret-key-2025"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated in-memory database, migrates the full schema,
// seeds the catalogs and creates the uniqueness backstop indexes, the same
// bootstrap sequence the server runs at startup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:itam_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}
	if err := repository.SeedCatalogs(db); err != nil {
		t.Fatalf("Failed to seed catalogs: %v", err)
	}
	if err := repository.EnsureIndexes(db); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID uint, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", userID),
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"iss":   "itam",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken(userID uint) string {
	return GenerateTestToken(userID, "Test Admin", "admin@test.com", []string{"itam_admin"})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// DeviceStateID resolves a device state catalog row by code
func DeviceStateID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var s entity.DeviceState
	if err := db.Where("code = ?", code).First(&s).Error; err != nil {
		t.Fatalf("Failed to resolve device state %s: %v", code, err)
	}
	return s.ID
}

// EmployeeStateID resolves an employee state catalog row by code
func EmployeeStateID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var s entity.EmployeeState
	if err := db.Where("code = ?", code).First(&s).Error; err != nil {
		t.Fatalf("Failed to resolve employee state %s: %v", code, err)
	}
	return s.ID
}

// AssignmentStateID resolves an assignment state catalog row by code
func AssignmentStateID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var s entity.AssignmentState
	if err := db.Where("code = ?", code).First(&s).Error; err != nil {
		t.Fatalf("Failed to resolve assignment state %s: %v", code, err)
	}
	return s.ID
}

// ReturnConditionID resolves a return condition catalog row by code
func ReturnConditionID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var s entity.ReturnCondition
	if err := db.Where("code = ?", code).First(&s).Error; err != nil {
		t.Fatalf("Failed to resolve return condition %s: %v", code, err)
	}
	return s.ID
}

// ReplacementReasonID resolves a replacement reason catalog row by code
func ReplacementReasonID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var s entity.ReplacementReason
	if err := db.Where("code = ?", code).First(&s).Error; err != nil {
		t.Fatalf("Failed to resolve replacement reason %s: %v", code, err)
	}
	return s.ID
}

// SeedUser creates an operator account
func SeedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username: username,
		Email:    username + "@test.com",
		FullName: "User " + username,
		Active:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedEmployee creates an employee in the given state
func SeedEmployee(t *testing.T, db *gorm.DB, code, stateCode string) *entity.Employee {
	t.Helper()
	employee := &entity.Employee{
		Code:       code,
		FirstName:  "Emp",
		LastName:   code,
		Email:      code + "@test.com",
		AreaID:     1,
		JobTitleID: 1,
		SiteID:     1,
		HireDate:   time.Now().AddDate(-1, 0, 0),
		StateID:    EmployeeStateID(t, db, stateCode),
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return employee
}

// SeedDevice creates a device in the given state, creating a brand and
// device type on the fly
func SeedDevice(t *testing.T, db *gorm.DB, assetCode, stateCode string) *entity.Device {
	t.Helper()

	brand := entity.Brand{Code: "LENOVO", Name: "Lenovo", Active: true}
	if err := db.Where("code = ?", brand.Code).FirstOrCreate(&brand).Error; err != nil {
		t.Fatalf("Failed to seed brand: %v", err)
	}
	deviceType := entity.DeviceType{Code: "LAPTOP", Name: "Laptop", Active: true}
	if err := db.Where("code = ?", deviceType.Code).FirstOrCreate(&deviceType).Error; err != nil {
		t.Fatalf("Failed to seed device type: %v", err)
	}

	device := &entity.Device{
		AssetCode:    assetCode,
		DeviceTypeID: deviceType.ID,
		BrandID:      brand.ID,
		Model:        "ThinkPad T14",
		StateID:      DeviceStateID(t, db, stateCode),
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}
	return device
}
