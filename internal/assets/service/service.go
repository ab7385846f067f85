package service

import (
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/bluepine/itam/internal/assets/sse"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services 资产域服务集合
type Services struct {
	Catalog     *CatalogService
	Device      *DeviceService
	Employee    *EmployeeService
	Assignment  *AssignmentService
	Replacement *ReplacementService
	Return      *ReturnService
	Movement    *MovementService
}

// NewServices 创建服务集合。db 用于跨实体的事务单元，
// rdb 用于目录编码解析缓存，hub 用于履历事件推送（二者均可为 nil）。
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, hub *sse.Hub) *Services {
	catalog := NewCatalogService(repos.Catalog, rdb)
	movement := NewMovementService(repos.Movement, catalog, hub)

	return &Services{
		Catalog:     catalog,
		Device:      NewDeviceService(repos.Device, repos.Catalog, catalog, movement, db),
		Employee:    NewEmployeeService(repos.Employee, catalog),
		Assignment:  NewAssignmentService(repos.Assignment, repos.Device, repos.Employee, catalog, movement, db),
		Replacement: NewReplacementService(repos.Replacement, repos.Assignment, repos.Device, repos.Catalog, catalog, movement, db),
		Return:      NewReturnService(repos.Return, repos.Assignment, repos.Device, repos.Employee, repos.Catalog, catalog, db),
		Movement:    movement,
	}
}
