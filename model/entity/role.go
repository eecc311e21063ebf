package entity

// Role groups admin users for RBAC.
type Role struct {
	RoleID   uint   `gorm:"column:role_id;primaryKey;autoIncrement"`
	RoleName string `gorm:"column:role_name;type:varchar(50);not null;uniqueIndex"`
}

func (Role) TableName() string {
	return "role"
}

// RolePermission grants a permission string (e.g. "stock.write",
// "catalog.write") to a role.
type RolePermission struct {
	RuleID     uint   `gorm:"column:rule_id;primaryKey;autoIncrement"`
	RoleID     uint   `gorm:"column:role_id;not null;uniqueIndex:uq_role_permission"`
	Permission string `gorm:"column:permission;type:varchar(64);not null;uniqueIndex:uq_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permission"
}
