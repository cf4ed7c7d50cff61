package services

import "docvault/models"

// Principal is the authenticated subject of a permission check.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsSuperadmin() bool {
	return p.Role == models.RoleSuperadmin
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleSuperadmin || p.Role == models.RoleAdmin
}

// ResourceRef names a permission-bearing resource.
type ResourceRef struct {
	Type models.ResourceType
	ID   uint
}

// RequestMeta carries client metadata into audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
