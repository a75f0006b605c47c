package authz

import "context"

// Subject is the authenticated caller.
type Subject struct {
	UserID     string
	EmployeeID string
	Role       Role
}

type subjectKey struct{}

func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(Subject)
	return s, ok
}

// SystemSubject is used by scheduled jobs.
func SystemSubject() Subject {
	return Subject{UserID: "system", Role: RoleSystem}
}

// ActorID identifies the subject in decided_by/validated_by columns.
func (s Subject) ActorID() string {
	if s.EmployeeID != "" {
		return s.EmployeeID
	}
	return s.UserID
}
