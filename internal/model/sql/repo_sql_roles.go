package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"projekthub/internal/entity"
)

// EnsureRole returns the role row for the given name, creating it if absent.
// The insert uses ON CONFLICT DO NOTHING so concurrent first-time calls
// cannot produce duplicate rows; the read afterwards returns whichever row
// won the race.
func (r *GormRepository) EnsureRole(ctx context.Context, name entity.RoleName) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if !name.Valid() {
		return nil, fmt.Errorf("unknown role %q", name)
	}

	role := entity.DbRole{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&role).Error
	if err != nil {
		return nil, err
	}
	if role.ID != 0 {
		return &role, nil
	}

	return r.GetRoleByName(ctx, name)
}

// GetRoleByName loads a role row by name.
func (r *GormRepository) GetRoleByName(ctx context.Context, name entity.RoleName) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var role entity.DbRole
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
