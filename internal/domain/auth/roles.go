package auth

import "strings"

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

var roleAliases = map[string]string{
	"admin":         RoleAdmin,
	"administrator": RoleAdmin,
	"super_admin":   RoleAdmin,
	"superadmin":    RoleAdmin,
	"systemadmin":   RoleAdmin,
	"system_admin":  RoleAdmin,
	"hr":            RoleHR,
	"hr_manager":    RoleHR,
	"hrmanager":     RoleHR,
	"manager":       RoleManager,
	"team_lead":     RoleManager,
	"employee":      RoleEmployee,
}

// NormalizeRole maps the backend's role spelling onto one of the four
// screen roles. Unknown roles fall back to employee.
func NormalizeRole(role string) string {
	key := strings.ToLower(strings.TrimSpace(role))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if mapped, ok := roleAliases[key]; ok {
		return mapped
	}
	return RoleEmployee
}

func HasRole(role string, allowed ...string) bool {
	role = NormalizeRole(role)
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

func RoleLabel(role string) string {
	switch NormalizeRole(role) {
	case RoleAdmin:
		return "Administrator"
	case RoleHR:
		return "HR"
	case RoleManager:
		return "Manager"
	default:
		return "Employee"
	}
}
