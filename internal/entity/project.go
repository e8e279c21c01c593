package entity

import "time"

// DefaultProjectName is the project every account starts with.
const DefaultProjectName = "Mitt första projekt"

// DbProject represents a resource owned by exactly one user.
type DbProject struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	User      DbUser    `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbProject) TableName() string {
	return "projects"
}

// ProjectSummary is the public projection of a project.
type ProjectSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminProjectSummary is the project projection for admin listings. It carries
// the owner inline the way the admin console renders it.
type AdminProjectSummary struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
