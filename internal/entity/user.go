package entity

import "time"

// RoleName is the closed set of permission tiers.
type RoleName string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// Valid reports whether the role belongs to the known enumeration.
func (r RoleName) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// DbRole represents a persisted permission tier. Rows are created lazily the
// first time a role name is referenced.
type DbRole struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      RoleName  `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
}

// TableName overrides default pluralised name.
func (DbRole) TableName() string {
	return "roles"
}

// DbUser represents a persisted user account. PasswordHash is empty for
// accounts provisioned through an OAuth provider.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Avatar       string    `gorm:"column:avatar;type:varchar(512)" json:"avatar"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	IsVerified   bool      `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	RoleID       uint      `gorm:"column:role_id;index;not null" json:"role_id"`
	Role         DbRole    `gorm:"foreignKey:RoleID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// RoleName returns the associated role name when the Role association is
// loaded, or an empty RoleName otherwise.
func (u *DbUser) RoleName() RoleName {
	if u == nil {
		return ""
	}
	return u.Role.Name
}

// UserSummary is the public projection of a user returned to clients.
// Password digests never appear here.
type UserSummary struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       RoleName  `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
