package entity

import "time"

// AdminAction tags an entry in the privileged-action audit log. The set is
// closed: a new privileged operation must add its tag here.
type AdminAction string

const (
	ActionLogin          AdminAction = "LOGIN"
	ActionGetAllUsers    AdminAction = "GET_ALL_USERS"
	ActionGetAllProjects AdminAction = "GET_ALL_PROJECTS"
	ActionDeleteUser     AdminAction = "DELETE_USER"
	ActionDeleteProject  AdminAction = "DELETE_PROJECT"
	ActionCreateAdmin    AdminAction = "CREATE_ADMIN"
)

// DbAdminLog is an append-only audit record of a privileged action. Rows are
// never updated or deleted by normal flows.
type DbAdminLog struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Action    AdminAction `gorm:"column:action;type:varchar(50);not null" json:"action"`
	UserID    uint        `gorm:"column:user_id;index;not null" json:"user_id"`
	Detail    string      `gorm:"column:detail;type:text" json:"detail"`
}

// TableName overrides default pluralised name.
func (DbAdminLog) TableName() string {
	return "admin_logs"
}

// AdminLogEntry is the projection returned by the audit-trail listing.
type AdminLogEntry struct {
	ID        uint        `json:"id"`
	Action    AdminAction `json:"action"`
	UserID    uint        `json:"user_id"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
