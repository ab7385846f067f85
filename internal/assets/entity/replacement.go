package entity

import "time"

// Replacement 在分配期间以另一台设备替换原设备的申请。
// OriginalDeviceID 在创建时从原分配冗余记录，保证审计稳定。
type Replacement struct {
	ID                  uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	AssignmentID        uint       `json:"assignment_id" gorm:"not null;index"`
	OriginalDeviceID    uint       `json:"original_device_id" gorm:"not null"`
	ReplacementDeviceID uint       `json:"replacement_device_id" gorm:"not null"`
	EmployeeID          uint       `json:"employee_id" gorm:"not null;index"`
	ReplacedAt          *time.Time `json:"replaced_at" gorm:"type:date"`

	ReasonID       uint   `json:"reason_id" gorm:"not null"`
	ReasonDetail   string `json:"reason_detail" gorm:"type:text"`
	RegisteredByID uint   `json:"registered_by_id" gorm:"not null"`
	StateID        uint   `json:"state_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignment        *Assignment        `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	OriginalDevice    *Device            `json:"original_device,omitempty" gorm:"foreignKey:OriginalDeviceID"`
	ReplacementDevice *Device            `json:"replacement_device,omitempty" gorm:"foreignKey:ReplacementDeviceID"`
	Employee          *Employee          `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Reason            *ReplacementReason `json:"reason,omitempty" gorm:"foreignKey:ReasonID"`
	RegisteredBy      *User              `json:"registered_by,omitempty" gorm:"foreignKey:RegisteredByID"`
	State             *ReplacementState  `json:"state,omitempty" gorm:"foreignKey:StateID"`
}

func (Replacement) TableName() string { return "replacements" }

// IsPending 替换状态编码为 PENDIENTE
func (r *Replacement) IsPending() bool {
	return r.State != nil && r.State.Code == ReplacementStatePending
}

// IsCompleted 替换状态编码为 COMPLETADO
func (r *Replacement) IsCompleted() bool {
	return r.State != nil && r.State.Code == ReplacementStateCompleted
}
