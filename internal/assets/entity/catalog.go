package entity

import "time"

// 目录编码常量。编码是目录表的内容（种子数据），业务表只持有外键，
// 这些常量仅用于在运行时按编码解析目录条目。
const (
	DeviceStateAvailable = "DISPONIBLE"
	DeviceStateAssigned  = "ASIGNADO"
	DeviceStateInRepair  = "EN_REPARACION"
	DeviceStateRetired   = "DE_BAJA"

	EmployeeStateActive     = "ACTIVO"
	EmployeeStateTerminated = "CESADO"

	AssignmentStateActive    = "ACTIVA"
	AssignmentStateReturned  = "DEVUELTA"
	AssignmentStateCancelled = "CANCELADA"

	ReplacementStatePending   = "PENDIENTE"
	ReplacementStateCompleted = "COMPLETADO"
	ReplacementStateCancelled = "CANCELADO"

	RequestStatePending   = "PENDIENTE"
	RequestStateCompleted = "COMPLETADA"
	RequestStateCancelled = "CANCELADA"

	ReturnConditionGood    = "BUENO"
	ReturnConditionRegular = "REGULAR"
	ReturnConditionDamaged = "DANADO"

	MovementAssignment  = "ASIGNACION"
	MovementReturn      = "DEVOLUCION"
	MovementReplacement = "REEMPLAZO"
	MovementStateChange = "CAMBIO_ESTADO"
)

// DeviceState 设备状态目录。AvailableForAssignment 标记该状态下设备是否可被分配。
type DeviceState struct {
	ID                     uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code                   string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name                   string    `json:"name" gorm:"size:100;not null"`
	Description            string    `json:"description" gorm:"size:255"`
	AvailableForAssignment bool      `json:"available_for_assignment" gorm:"not null;default:false"`
	Active                 bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt              time.Time `json:"created_at"`
}

func (DeviceState) TableName() string { return "cat_device_states" }

// EmployeeState 员工状态目录
type EmployeeState struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (EmployeeState) TableName() string { return "cat_employee_states" }

// AssignmentState 分配状态目录（ACTIVA/DEVUELTA/CANCELADA）
type AssignmentState struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AssignmentState) TableName() string { return "cat_assignment_states" }

// ReplacementState 替换状态目录（PENDIENTE/COMPLETADO/CANCELADO）
type ReplacementState struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ReplacementState) TableName() string { return "cat_replacement_states" }

// RequestState 归还申请状态目录（PENDIENTE/COMPLETADA/CANCELADA）
type RequestState struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (RequestState) TableName() string { return "cat_request_states" }

// ReturnCondition 归还时设备状况目录（BUENO/REGULAR/DANADO等）
type ReturnCondition struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ReturnCondition) TableName() string { return "cat_return_conditions" }

// ReplacementReason 替换原因目录（FALLA/ACTUALIZACION等）
type ReplacementReason struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ReplacementReason) TableName() string { return "cat_replacement_reasons" }

// MovementType 设备履历移动类型目录
type MovementType struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MovementType) TableName() string { return "cat_movement_types" }

// DeviceType 设备类型目录
type DeviceType struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DeviceType) TableName() string { return "cat_device_types" }

// Brand 品牌目录
type Brand struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (Brand) TableName() string { return "cat_brands" }
