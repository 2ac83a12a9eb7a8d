package model

// Role codes known to the seeder and reports. Roles are stored as free text so
// existing rows with other values keep working.
const (
	RoleAdmin   = "admin"
	RoleCashier = "kasir"
)
