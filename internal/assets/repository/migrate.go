package repository

import (
	"fmt"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// Migrate 建表并创建约束索引。必须在目录种子数据之后调用 EnsureIndexes，
// 因为部分唯一索引需要解析 ACTIVA 状态的主键。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.DeviceState{},
		&entity.EmployeeState{},
		&entity.AssignmentState{},
		&entity.ReplacementState{},
		&entity.RequestState{},
		&entity.ReturnCondition{},
		&entity.ReplacementReason{},
		&entity.MovementType{},
		&entity.DeviceType{},
		&entity.Brand{},
		&entity.User{},
		&entity.Employee{},
		&entity.Device{},
		&entity.Assignment{},
		&entity.Replacement{},
		&entity.ReturnRequest{},
		&entity.ReturnItem{},
		&entity.DeviceMovement{},
	)
}

// EnsureIndexes 创建“同一设备至多一条 ACTIVA 分配”的数据库级兜底。
// 应用层的先查后插在并发下不充分，唯一索引才是不变量的最终保证。
func EnsureIndexes(db *gorm.DB) error {
	var activeState entity.AssignmentState
	if err := db.Where("code = ?", entity.AssignmentStateActive).First(&activeState).Error; err != nil {
		return fmt.Errorf("resolve %s assignment state: %w", entity.AssignmentStateActive, err)
	}

	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS assignments_one_active_per_device
	  ON assignments (device_id)
	  WHERE state_id = %d;
	`, activeState.ID)).Error; err != nil {
		return err
	}

	return db.Exec(`
	  CREATE INDEX IF NOT EXISTS assignments_device_assignedat_desc
	  ON assignments (device_id, assigned_at DESC);
	`).Error
}

type catalogSeed struct {
	code string
	name string
}

// SeedCatalogs 写入目录种子数据。编码是数据而非枚举，业务逻辑在运行时
// 按编码解析，这里只保证默认条目存在。
func SeedCatalogs(db *gorm.DB) error {
	deviceStates := []struct {
		catalogSeed
		available bool
	}{
		{catalogSeed{entity.DeviceStateAvailable, "Disponible"}, true},
		{catalogSeed{entity.DeviceStateAssigned, "Asignado"}, false},
		{catalogSeed{entity.DeviceStateInRepair, "En reparación"}, false},
		{catalogSeed{entity.DeviceStateRetired, "De baja"}, false},
	}
	for _, s := range deviceStates {
		row := entity.DeviceState{Code: s.code, Name: s.name, AvailableForAssignment: s.available, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.EmployeeStateActive, "Activo"},
		{entity.EmployeeStateTerminated, "Cesado"},
	} {
		row := entity.EmployeeState{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.AssignmentStateActive, "Activa"},
		{entity.AssignmentStateReturned, "Devuelta"},
		{entity.AssignmentStateCancelled, "Cancelada"},
	} {
		row := entity.AssignmentState{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.ReplacementStatePending, "Pendiente"},
		{entity.ReplacementStateCompleted, "Completado"},
		{entity.ReplacementStateCancelled, "Cancelado"},
	} {
		row := entity.ReplacementState{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.RequestStatePending, "Pendiente"},
		{entity.RequestStateCompleted, "Completada"},
		{entity.RequestStateCancelled, "Cancelada"},
	} {
		row := entity.RequestState{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.ReturnConditionGood, "Bueno"},
		{entity.ReturnConditionRegular, "Regular"},
		{entity.ReturnConditionDamaged, "Dañado"},
	} {
		row := entity.ReturnCondition{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{"FALLA", "Falla de hardware"},
		{"ACTUALIZACION", "Actualización tecnológica"},
		{"PERDIDA", "Pérdida o robo"},
	} {
		row := entity.ReplacementReason{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	for _, s := range []catalogSeed{
		{entity.MovementAssignment, "Asignación"},
		{entity.MovementReturn, "Devolución"},
		{entity.MovementReplacement, "Reemplazo"},
		{entity.MovementStateChange, "Cambio de estado"},
	} {
		row := entity.MovementType{Code: s.code, Name: s.name, Active: true}
		if err := db.Where("code = ?", s.code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
