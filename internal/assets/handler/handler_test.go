package handler

import (
	"testing"

	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/bluepine/itam/internal/assets/sse"
	"github.com/bluepine/itam/internal/assets/testutil"
	"github.com/bluepine/itam/internal/middleware"
)

// setupAPITest wires the full stack against an in-memory database and
// registers the same routes the server exposes.
func setupAPITest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	hub := sse.NewHub(nil)
	services := service.NewServices(repos, db, nil, hub)
	h := NewHandlers(services, hub)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/events", h.Event.Stream)

	devices := api.Group("/devices")
	{
		devices.GET("", h.Device.List)
		devices.GET("/available", h.Device.ListAvailable)
		devices.GET("/code/:code", h.Device.GetByAssetCode)
		devices.GET("/:id", h.Device.Get)
		devices.GET("/:id/movements", h.Device.ListMovements)
		devices.POST("", h.Device.Create)
		devices.PUT("/:id", h.Device.Update)
		devices.PATCH("/:id/state", h.Device.UpdateState)
		devices.DELETE("/:id", h.Device.Delete)
	}

	employees := api.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.GET("/code/:code", h.Employee.GetByCode)
		employees.GET("/:id", h.Employee.Get)
		employees.GET("/:id/assignments", h.Employee.ListAssignments)
		employees.POST("", h.Employee.Create)
		employees.PUT("/:id", h.Employee.Update)
		employees.POST("/:id/terminate", h.Employee.Terminate)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", h.Assignment.List)
		assignments.GET("/active", h.Assignment.ListActive)
		assignments.GET("/device/:id", h.Assignment.ListByDevice)
		assignments.GET("/:id", h.Assignment.Get)
		assignments.POST("", h.Assignment.Assign)
		assignments.POST("/:id/return", h.Assignment.Return)
		assignments.POST("/:id/cancel", h.Assignment.Cancel)
	}

	replacements := api.Group("/replacements")
	{
		replacements.GET("", h.Replacement.List)
		replacements.GET("/pending", h.Replacement.ListPending)
		replacements.GET("/employee/:id", h.Replacement.ListByEmployee)
		replacements.GET("/:id", h.Replacement.Get)
		replacements.POST("", h.Replacement.Create)
		replacements.POST("/:id/execute", h.Replacement.Execute)
		replacements.POST("/:id/cancel", h.Replacement.Cancel)
	}

	returns := api.Group("/returns")
	{
		returns.GET("", h.Return.List)
		returns.GET("/overdue", h.Return.ListOverdue)
		returns.GET("/employee/:id", h.Return.ListByEmployee)
		returns.GET("/:id", h.Return.Get)
		returns.POST("", h.Return.Create)
		returns.PUT("/:id", h.Return.Update)
		returns.POST("/:id/items", h.Return.AddItem)
		returns.PUT("/items/:itemId", h.Return.UpdateItem)
		returns.DELETE("/items/:itemId", h.Return.RemoveItem)
		returns.POST("/:id/complete", h.Return.Complete)
		returns.POST("/:id/cancel", h.Return.Cancel)
	}

	catalogs := api.Group("/catalogs")
	{
		catalogs.GET("/device-states", h.Catalog.ListDeviceStates)
		catalogs.GET("/return-conditions", h.Catalog.ListReturnConditions)
		catalogs.GET("/replacement-reasons", h.Catalog.ListReplacementReasons)
		catalogs.GET("/brands", h.Catalog.ListBrands)
		catalogs.GET("/device-types", h.Catalog.ListDeviceTypes)
		catalogs.POST("/brands", middleware.RequireRole("itam_admin"), h.Catalog.CreateBrand)
		catalogs.POST("/device-types", middleware.RequireRole("itam_admin"), h.Catalog.CreateDeviceType)
		catalogs.PUT("/brands/:id", middleware.RequireRole("itam_admin"), h.Catalog.UpdateBrand)
		catalogs.PUT("/device-types/:id", middleware.RequireRole("itam_admin"), h.Catalog.UpdateDeviceType)
		catalogs.DELETE("/brands/:id", middleware.RequireRole("itam_admin"), h.Catalog.DeactivateBrand)
		catalogs.DELETE("/device-types/:id", middleware.RequireRole("itam_admin"), h.Catalog.DeactivateDeviceType)
	}

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func respCode(resp map[string]interface{}) int {
	code, _ := resp["code"].(float64)
	return int(code)
}
