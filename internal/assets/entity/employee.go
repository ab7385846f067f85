package entity

import (
	"strings"
	"time"
)

// Employee 可持有设备的员工
type Employee struct {
	ID               uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Code             string     `json:"code" gorm:"size:20;uniqueIndex;not null"`
	FirstName        string     `json:"first_name" gorm:"size:100;not null"`
	LastName         string     `json:"last_name" gorm:"size:100;not null"`
	MaternalLastName string     `json:"maternal_last_name" gorm:"size:100"`
	Email            string     `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Phone            string     `json:"phone" gorm:"size:20"`
	AreaID           uint       `json:"area_id" gorm:"not null"`
	JobTitleID       uint       `json:"job_title_id" gorm:"not null"`
	SiteID           uint       `json:"site_id" gorm:"not null"`
	HireDate         time.Time  `json:"hire_date" gorm:"type:date;not null"`
	TerminationDate  *time.Time `json:"termination_date" gorm:"type:date"`
	StateID          uint       `json:"state_id" gorm:"not null;index"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	State *EmployeeState `json:"state,omitempty" gorm:"foreignKey:StateID"`
}

func (Employee) TableName() string { return "employees" }

// FullName 拼接姓名
func (e *Employee) FullName() string {
	parts := []string{e.FirstName, e.LastName}
	if e.MaternalLastName != "" {
		parts = append(parts, e.MaternalLastName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// IsActive 员工状态编码为 ACTIVO 时可接收设备
func (e *Employee) IsActive() bool {
	return e.State != nil && e.State.Code == EmployeeStateActive
}

// IsTerminated 离职日期已到或已过
func (e *Employee) IsTerminated() bool {
	return e.TerminationDate != nil && !e.TerminationDate.After(time.Now())
}

// User 操作员账号，被分配/归还/替换记录引用
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	FullName  string    `json:"full_name" gorm:"size:200;not null"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
