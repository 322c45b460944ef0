package auth

import "errors"

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

const (
	RouteLogin             = "/login"
	RouteSignup            = "/"
	RouteEmployeeDashboard = "/employee-dashboard"
	RouteManagerDashboard  = "/manager-dashboard"
)

var ErrUnknownRole = errors.New("unknown role")

// LandingRoute maps a role to the dashboard it lands on after login. Roles
// match exactly; padded or differently cased values are unknown.
func LandingRoute(role string) (string, error) {
	switch role {
	case RoleEmployee:
		return RouteEmployeeDashboard, nil
	case RoleManager:
		return RouteManagerDashboard, nil
	default:
		return "", ErrUnknownRole
	}
}

func KnownRole(role string) bool {
	_, err := LandingRoute(role)
	return err == nil
}
