package absence

import "context"

type AbsenceService interface {
	// RequestAbsence creates a PENDING absence after computing its inclusive day count
	RequestAbsence(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error)

	// UpdateAbsence edits a PENDING absence, recomputing days when the range changes
	UpdateAbsence(ctx context.Context, req UpdateAbsenceRequest) (AbsenceResponse, error)

	ApproveAbsence(ctx context.Context, req DecisionRequest) (AbsenceResponse, error)
	RejectAbsence(ctx context.Context, req DecisionRequest) (AbsenceResponse, error)

	GetAbsence(ctx context.Context, id string) (AbsenceResponse, error)
	ListAbsences(ctx context.Context, filter AbsenceFilter) (ListAbsenceResponse, error)
}
