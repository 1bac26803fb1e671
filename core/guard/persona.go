package guard

// Role tags as they appear in Identity.Roles.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Persona is the single effective role an identity is evaluated as.
type Persona int

const (
	Student Persona = iota
	Instructor
	Admin
)

func (p Persona) String() string {
	switch p {
	case Admin:
		return RoleAdmin
	case Instructor:
		return RoleInstructor
	default:
		return RoleStudent
	}
}

// DerivePersona collapses a role tag set into exactly one Persona: admin
// takes precedence over instructor, and anything else (including an empty
// or unrecognized set) is a student.
func DerivePersona(roles []string) Persona {
	var instructor bool
	for _, role := range roles {
		switch role {
		case RoleAdmin:
			return Admin
		case RoleInstructor:
			instructor = true
		}
	}
	if instructor {
		return Instructor
	}
	return Student
}
