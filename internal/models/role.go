package models

// Role is the integer role code resolved by the database from the session token.
type Role int

const (
	RoleNone      Role = 0
	RoleAdmin     Role = 1
	RoleTeacher   Role = 2
	RoleStudent   Role = 3
	RoleExecutive Role = 4
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

var roleHomes = map[Role]string{
	RoleAdmin:     "/admin",
	RoleTeacher:   "/dashboard-teacher",
	RoleStudent:   "/dashboard",
	RoleExecutive: "/dashboard-executive",
}

var roleNames = map[Role]string{
	RoleAdmin:     "admin",
	RoleTeacher:   "teacher",
	RoleStudent:   "student",
	RoleExecutive: "executive",
}

// RoleFromCode maps a database role code to a Role.
func RoleFromCode(code int64) (Role, bool) {
	role := Role(code)
	if !role.Valid() {
		return RoleNone, false
	}
	return role, true
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleHomes[r]
	return ok
}

// Home is the canonical landing route for the role; unknown roles land on the login page.
func (r Role) Home() string {
	if home, ok := roleHomes[r]; ok {
		return home
	}
	return LoginPath
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}
