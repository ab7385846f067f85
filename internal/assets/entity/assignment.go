package entity

import "time"

// Assignment 设备到员工的一次分配。同一设备同一时刻至多一条 ACTIVA 记录，
// 由迁移时创建的部分唯一索引兜底。离开 ACTIVA 后记录即为历史，只能通过
// 新的补偿记录变更。
type Assignment struct {
	ID         uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID   uint       `json:"device_id" gorm:"not null;index"`
	EmployeeID uint       `json:"employee_id" gorm:"not null;index"`
	AssignedAt time.Time  `json:"assigned_at" gorm:"type:date;not null"`
	ReturnedAt *time.Time `json:"returned_at" gorm:"type:date"`

	AssignedByID uint  `json:"assigned_by_id" gorm:"not null"`
	ReceivedByID *uint `json:"received_by_id"`
	StateID      uint  `json:"state_id" gorm:"not null;index"`

	AssignNotes string `json:"assign_notes" gorm:"type:text"`
	ReturnNotes string `json:"return_notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Device     *Device          `json:"device,omitempty" gorm:"foreignKey:DeviceID"`
	Employee   *Employee        `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	AssignedBy *User            `json:"assigned_by,omitempty" gorm:"foreignKey:AssignedByID"`
	ReceivedBy *User            `json:"received_by,omitempty" gorm:"foreignKey:ReceivedByID"`
	State      *AssignmentState `json:"state,omitempty" gorm:"foreignKey:StateID"`
}

func (Assignment) TableName() string { return "assignments" }

// IsActive 分配状态编码为 ACTIVA
func (a *Assignment) IsActive() bool {
	return a.State != nil && a.State.Code == AssignmentStateActive
}

// IsReturned 已登记归还日期
func (a *Assignment) IsReturned() bool {
	return a.ReturnedAt != nil
}

// DaysAssigned 已分配天数（未归还按今天算），派生值不落库
func (a *Assignment) DaysAssigned() int {
	end := time.Now()
	if a.ReturnedAt != nil {
		end = *a.ReturnedAt
	}
	days := int(end.Sub(a.AssignedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// HasExceededDays 是否超过给定天数
func (a *Assignment) HasExceededDays(days int) bool {
	return a.DaysAssigned() > days
}
