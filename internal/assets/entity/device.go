package entity

import (
	"strings"
	"time"
)

// Device 组织的IT资产。设备是否可分配由其状态目录条目的
// AvailableForAssignment 标志派生，不单独存储。
type Device struct {
	ID           uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	AssetCode    string  `json:"asset_code" gorm:"size:50;uniqueIndex;not null"`
	SerialNumber *string `json:"serial_number" gorm:"size:100;uniqueIndex"`
	DeviceTypeID uint    `json:"device_type_id" gorm:"not null"`
	BrandID      uint    `json:"brand_id" gorm:"not null"`
	Model        string  `json:"model" gorm:"size:100"`
	StateID      uint    `json:"state_id" gorm:"not null;index"`
	Specs        string  `json:"specs" gorm:"type:text"`

	AcquiredAt       *time.Time `json:"acquired_at" gorm:"type:date"`
	AcquisitionValue *float64   `json:"acquisition_value" gorm:"type:decimal(10,2)"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeviceType *DeviceType  `json:"device_type,omitempty" gorm:"foreignKey:DeviceTypeID"`
	Brand      *Brand       `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	State      *DeviceState `json:"state,omitempty" gorm:"foreignKey:StateID"`
}

func (Device) TableName() string { return "devices" }

// IsAvailable 按当前状态目录条目判断设备是否可被分配
func (d *Device) IsAvailable() bool {
	return d.State != nil && d.State.AvailableForAssignment
}

// AgeYears 自购置日期起的年数
func (d *Device) AgeYears() int {
	if d.AcquiredAt == nil {
		return 0
	}
	years := time.Now().Year() - d.AcquiredAt.Year()
	anniversary := d.AcquiredAt.AddDate(years, 0, 0)
	if anniversary.After(time.Now()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ShortDescription 品牌+型号的展示名
func (d *Device) ShortDescription() string {
	var sb strings.Builder
	if d.Brand != nil {
		sb.WriteString(d.Brand.Name)
		sb.WriteString(" ")
	}
	sb.WriteString(d.Model)
	return strings.TrimSpace(sb.String())
}
