package entity

import "time"

// ReturnRequest 从员工处回收一台或多台设备的申请，典型场景是员工离职。
// 完成申请本身不关闭各行项引用的分配，设备对账由分配台账的归还操作单独处理。
type ReturnRequest struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID      uint       `json:"employee_id" gorm:"not null;index"`
	RequestDate     time.Time  `json:"request_date" gorm:"type:date;not null"`
	EmployeeEndDate time.Time  `json:"employee_end_date" gorm:"type:date;not null"`
	ScheduledDate   time.Time  `json:"scheduled_date" gorm:"type:date;not null"`
	ActualDate      *time.Time `json:"actual_date" gorm:"type:date"`

	StateID       uint  `json:"state_id" gorm:"not null;index"`
	RequestedByID uint  `json:"requested_by_id" gorm:"not null"`
	ReceivedByID  *uint `json:"received_by_id"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Employee    *Employee     `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	State       *RequestState `json:"state,omitempty" gorm:"foreignKey:StateID"`
	RequestedBy *User         `json:"requested_by,omitempty" gorm:"foreignKey:RequestedByID"`
	ReceivedBy  *User         `json:"received_by,omitempty" gorm:"foreignKey:ReceivedByID"`
	Items       []ReturnItem  `json:"items,omitempty" gorm:"foreignKey:RequestID"`
}

func (ReturnRequest) TableName() string { return "return_requests" }

// IsPending 申请状态编码为 PENDIENTE
func (r *ReturnRequest) IsPending() bool {
	return r.State != nil && r.State.Code == RequestStatePending
}

// IsCompleted 申请状态编码为 COMPLETADA
func (r *ReturnRequest) IsCompleted() bool {
	return r.State != nil && r.State.Code == RequestStateCompleted
}

// IsOverdue 未登记实际归还且已过计划日期
func (r *ReturnRequest) IsOverdue() bool {
	if r.ActualDate != nil {
		return false
	}
	return time.Now().After(r.ScheduledDate.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// DeviceCount 申请中的设备数量
func (r *ReturnRequest) DeviceCount() int {
	return len(r.Items)
}

// ReturnItem 归还申请中的一台具体设备，登记归还时的状况，
// 并引用将被关闭的那条在用分配。同一申请内设备不可重复。
type ReturnItem struct {
	ID           uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID    uint   `json:"request_id" gorm:"not null;uniqueIndex:uniq_return_item_device"`
	DeviceID     uint   `json:"device_id" gorm:"not null;uniqueIndex:uniq_return_item_device"`
	AssignmentID uint   `json:"assignment_id" gorm:"not null"`
	ConditionID  uint   `json:"condition_id" gorm:"not null"`
	Notes        string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Request    *ReturnRequest   `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Device     *Device          `json:"device,omitempty" gorm:"foreignKey:DeviceID"`
	Assignment *Assignment      `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Condition  *ReturnCondition `json:"condition,omitempty" gorm:"foreignKey:ConditionID"`
}

func (ReturnItem) TableName() string { return "return_items" }

// IsGoodCondition 设备以 BUENO 状况归还
func (i *ReturnItem) IsGoodCondition() bool {
	return i.Condition != nil && i.Condition.Code == ReturnConditionGood
}
