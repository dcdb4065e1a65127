package models

// RecordScope restricts which grade and attendance records a read applies to.
// Empty fields are unrestricted.
type RecordScope struct {
	StudentID    string
	CourseID     string
	Semester     string
	AcademicYear string
}

// PrincipalKind tags the variant of a Principal.
type PrincipalKind int

const (
	PrincipalAdministrator PrincipalKind = iota + 1
	PrincipalStudent
)

// Principal is the authenticated caller reduced to what scope resolution needs.
type Principal struct {
	Kind   PrincipalKind
	UserID string
}

// StudentPrincipal builds a student principal for the given login account.
func StudentPrincipal(userID string) Principal {
	return Principal{Kind: PrincipalStudent, UserID: userID}
}

// AdministratorPrincipal builds an unrestricted principal.
func AdministratorPrincipal(userID string) Principal {
	return Principal{Kind: PrincipalAdministrator, UserID: userID}
}

// IsStudent reports whether the principal is restricted to its own records.
func (p Principal) IsStudent() bool {
	return p.Kind == PrincipalStudent
}

// PrincipalFromClaims maps token claims to a principal. Teachers read with administrator scope.
func PrincipalFromClaims(claims *JWTClaims) (Principal, bool) {
	if claims == nil || claims.UserID == "" {
		return Principal{}, false
	}
	switch claims.Role {
	case RoleStudent:
		return StudentPrincipal(claims.UserID), true
	case RoleAdmin, RoleTeacher:
		return AdministratorPrincipal(claims.UserID), true
	default:
		return Principal{}, false
	}
}
