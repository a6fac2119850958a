package dto

type CreateRoleDTO struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

type RenameRoleDTO struct {
	Name string `json:"name" binding:"required"`
}

type AddPermissionDTO struct {
	RoleID         uint   `json:"roleId" binding:"required"`
	PermissionName string `json:"permissionName" binding:"required"`
}

type ReplacePermissionsDTO struct {
	PermissionIDs []uint `json:"permissionIds" binding:"required"`
}

type PermissionDTO struct {
	Name string `json:"name" binding:"required"`
}

type UpdateUserRolesDTO struct {
	RoleIDs []uint `json:"roleIds" binding:"required"`
}
