package absence

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type AbsenceServiceImpl struct {
	tx           database.Transactor
	absenceRepo  absence.AbsenceRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
	now          func() time.Time
}

func NewAbsenceService(
	tx database.Transactor,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
) *AbsenceServiceImpl {
	return &AbsenceServiceImpl{
		tx:           tx,
		absenceRepo:  absenceRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
		now:          time.Now,
	}
}

// RequestAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) RequestAbsence(ctx context.Context, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityRecord, req.EmployeeID); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return absence.AbsenceResponse{}, err
	}

	absenceType, _ := absence.ParseType(req.AbsenceType)
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	now := s.now().UTC()
	a := absence.Absence{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  req.EmployeeID,
		AbsenceType: absenceType,
		Reason:      req.Reason,
		Status:      approval.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.SetRange(start, end); err != nil {
		return absence.AbsenceResponse{}, err
	}

	created, err := s.absenceRepo.Create(ctx, a)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to create absence: %w", err)
	}

	slog.Info("Absence requested", "absence_id", created.ID, "employee_id", created.EmployeeID, "days", created.Days)
	return absence.NewAbsenceResponse(created), nil
}

// UpdateAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) UpdateAbsence(ctx context.Context, req absence.UpdateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	var updated absence.Absence
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.absenceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, authz.CapabilityRecord, a.EmployeeID); err != nil {
			return err
		}
		if err := approval.CheckEditable(a.Status); err != nil {
			return err
		}

		if req.AbsenceType != nil {
			a.AbsenceType, _ = absence.ParseType(*req.AbsenceType)
		}
		if req.Reason != nil {
			a.Reason = req.Reason
		}
		if req.StartDate != nil || req.EndDate != nil {
			start, end := a.StartDate, a.EndDate
			if req.StartDate != nil {
				start, _ = validator.IsValidDate(*req.StartDate)
			}
			if req.EndDate != nil {
				end, _ = validator.IsValidDate(*req.EndDate)
			}
			if err := a.SetRange(start, end); err != nil {
				return err
			}
		}
		a.UpdatedAt = s.now().UTC()

		if err := s.absenceRepo.UpdatePending(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.NewAbsenceResponse(updated), nil
}

// ApproveAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ApproveAbsence(ctx context.Context, req absence.DecisionRequest) (absence.AbsenceResponse, error) {
	return s.decide(ctx, req.ID, approval.StatusApproved, nil)
}

// RejectAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) RejectAbsence(ctx context.Context, req absence.DecisionRequest) (absence.AbsenceResponse, error) {
	return s.decide(ctx, req.ID, approval.StatusRejected, req.Reason)
}

func (s *AbsenceServiceImpl) decide(ctx context.Context, id string, status approval.Status, reason *string) (absence.AbsenceResponse, error) {
	subject, ok := authz.SubjectFromContext(ctx)
	if !ok {
		return absence.AbsenceResponse{}, authz.ErrMissingSubject
	}

	var decided absence.Absence
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.absenceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, authz.CapabilityApprove, a.EmployeeID); err != nil {
			return err
		}

		decision, err := approval.NewDecision(status, subject.ActorID(), s.now(), reason)
		if err != nil {
			return err
		}
		if err := s.absenceRepo.Decide(ctx, id, decision); err != nil {
			return err
		}

		decided, err = s.absenceRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	slog.Info("Absence decided", "absence_id", id, "status", status, "decided_by", subject.ActorID())
	return absence.NewAbsenceResponse(decided), nil
}

// GetAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) GetAbsence(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	a, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, a.EmployeeID); err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.NewAbsenceResponse(a), nil
}

// ListAbsences implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ListAbsences(ctx context.Context, filter absence.AbsenceFilter) (absence.ListAbsenceResponse, error) {
	if err := filter.Validate(); err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	owner := ""
	if filter.EmployeeID != nil {
		owner = *filter.EmployeeID
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, owner); err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	absences, total, err := s.absenceRepo.List(ctx, filter)
	if err != nil {
		return absence.ListAbsenceResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	responses := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		responses = append(responses, absence.NewAbsenceResponse(a))
	}

	return absence.ListAbsenceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Absences:   responses,
	}, nil
}

var _ absence.AbsenceService = (*AbsenceServiceImpl)(nil)
