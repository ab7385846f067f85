package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 资产域仓库集合
type Repositories struct {
	Catalog     *CatalogRepository
	Device      *DeviceRepository
	Employee    *EmployeeRepository
	User        *UserRepository
	Assignment  *AssignmentRepository
	Replacement *ReplacementRepository
	Return      *ReturnRepository
	Movement    *MovementRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Catalog:     NewCatalogRepository(db),
		Device:      NewDeviceRepository(db),
		Employee:    NewEmployeeRepository(db),
		User:        NewUserRepository(db),
		Assignment:  NewAssignmentRepository(db),
		Replacement: NewReplacementRepository(db),
		Return:      NewReturnRepository(db),
		Movement:    NewMovementRepository(db),
	}
}
