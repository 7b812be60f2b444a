package constants

const (
	User  = "user"
	Admin = "admin"
	// Service marks tokens the dashboard mints for itself.
	Service = "service"
)
