package entity

import "time"

// DeviceMovement 设备生命周期履历，仅追加。协调器在状态变更的同一事务内
// 写入，之后只读不改。
type DeviceMovement struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID       uint      `json:"device_id" gorm:"not null;index:idx_movement_device"`
	MovementTypeID uint      `json:"movement_type_id" gorm:"not null"`
	UserID         uint      `json:"user_id" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	OldData        string    `json:"old_data" gorm:"type:text"`
	NewData        string    `json:"new_data" gorm:"type:text"`
	MovedAt        time.Time `json:"moved_at" gorm:"not null;index:idx_movement_device"`

	Device       *Device       `json:"device,omitempty" gorm:"foreignKey:DeviceID"`
	MovementType *MovementType `json:"movement_type,omitempty" gorm:"foreignKey:MovementTypeID"`
	User         *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (DeviceMovement) TableName() string { return "device_movements" }

// IsAssignment 履历类型为分配
func (m *DeviceMovement) IsAssignment() bool {
	return m.MovementType != nil && m.MovementType.Code == MovementAssignment
}

// IsReturn 履历类型为归还
func (m *DeviceMovement) IsReturn() bool {
	return m.MovementType != nil && m.MovementType.Code == MovementReturn
}
