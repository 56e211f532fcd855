package domain

// Roles an account may be created with. Role is fixed at creation.
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
)
