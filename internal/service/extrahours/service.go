package extrahours

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type ExtraHoursServiceImpl struct {
	tx           database.Transactor
	recordRepo   extrahours.RecordRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
	now          func() time.Time
}

func NewExtraHoursService(
	tx database.Transactor,
	recordRepo extrahours.RecordRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
) *ExtraHoursServiceImpl {
	return &ExtraHoursServiceImpl{
		tx:           tx,
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
		now:          time.Now,
	}
}

// DeclareOvertime implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) DeclareOvertime(ctx context.Context, req extrahours.DeclareOvertimeRequest) (extrahours.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return extrahours.RecordResponse{}, err
	}

	var category schedule.RangeType
	if req.RateCategory != nil {
		category, _ = schedule.ParseRangeType(*req.RateCategory)
	}
	date, _ := validator.IsValidDate(req.Date)

	rec, err := extrahours.NewOvertime(req.EmployeeID, date, req.Hours, category, req.Multiplier)
	if err != nil {
		return extrahours.RecordResponse{}, err
	}
	rec.Reason = req.Reason
	return s.create(ctx, rec)
}

// DeclareSpecialHours implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) DeclareSpecialHours(ctx context.Context, req extrahours.DeclareSpecialHoursRequest) (extrahours.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return extrahours.RecordResponse{}, err
	}

	hourType, _ := extrahours.ParseHourType(req.HourType)
	date, _ := validator.IsValidDate(req.Date)

	rec, err := extrahours.NewSpecialHours(req.EmployeeID, date, req.Hours, hourType, req.Multiplier)
	if err != nil {
		return extrahours.RecordResponse{}, err
	}
	rec.Reason = req.Reason
	return s.create(ctx, rec)
}

func (s *ExtraHoursServiceImpl) create(ctx context.Context, rec extrahours.Record) (extrahours.RecordResponse, error) {
	if err := s.authorizer.Authorize(ctx, authz.CapabilityRecord, rec.EmployeeID); err != nil {
		return extrahours.RecordResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID); err != nil {
		return extrahours.RecordResponse{}, err
	}

	now := s.now().UTC()
	rec.ID = uuid.Must(uuid.NewV7()).String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	created, err := s.recordRepo.Create(ctx, rec)
	if err != nil {
		return extrahours.RecordResponse{}, fmt.Errorf("failed to create %s record: %w", rec.Kind, err)
	}

	slog.Info("Extra hours declared", "record_id", created.ID, "kind", created.Kind, "hours", created.Hours, "multiplier", created.Multiplier.String())
	return extrahours.NewRecordResponse(created), nil
}

// UpdateRecord implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) UpdateRecord(ctx context.Context, req extrahours.UpdateRecordRequest) (extrahours.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return extrahours.RecordResponse{}, err
	}

	var updated extrahours.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.recordRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, authz.CapabilityRecord, rec.EmployeeID); err != nil {
			return err
		}
		if err := rec.Revise(req.ToRevision()); err != nil {
			return err
		}
		rec.UpdatedAt = s.now().UTC()

		if err := s.recordRepo.UpdatePending(ctx, rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return extrahours.RecordResponse{}, err
	}

	slog.Info("Extra hours updated", "record_id", updated.ID, "hours", updated.Hours, "multiplier", updated.Multiplier.String())
	return extrahours.NewRecordResponse(updated), nil
}

// ApproveRecord implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) ApproveRecord(ctx context.Context, req extrahours.DecisionRequest) (extrahours.RecordResponse, error) {
	return s.decide(ctx, req.ID, approval.StatusApproved, nil)
}

// RejectRecord implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) RejectRecord(ctx context.Context, req extrahours.DecisionRequest) (extrahours.RecordResponse, error) {
	return s.decide(ctx, req.ID, approval.StatusRejected, req.Reason)
}

func (s *ExtraHoursServiceImpl) decide(ctx context.Context, id string, status approval.Status, reason *string) (extrahours.RecordResponse, error) {
	subject, ok := authz.SubjectFromContext(ctx)
	if !ok {
		return extrahours.RecordResponse{}, authz.ErrMissingSubject
	}

	var decided extrahours.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.recordRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, authz.CapabilityApprove, rec.EmployeeID); err != nil {
			return err
		}

		decision, err := approval.NewDecision(status, subject.ActorID(), s.now(), reason)
		if err != nil {
			return err
		}
		if err := s.recordRepo.Decide(ctx, id, decision); err != nil {
			return err
		}

		decided, err = s.recordRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return extrahours.RecordResponse{}, err
	}

	slog.Info("Extra hours decided", "record_id", id, "status", status, "decided_by", subject.ActorID())
	return extrahours.NewRecordResponse(decided), nil
}

// GetRecord implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) GetRecord(ctx context.Context, id string) (extrahours.RecordResponse, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return extrahours.RecordResponse{}, err
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, rec.EmployeeID); err != nil {
		return extrahours.RecordResponse{}, err
	}
	return extrahours.NewRecordResponse(rec), nil
}

// ListRecords implements extrahours.ExtraHoursService.
func (s *ExtraHoursServiceImpl) ListRecords(ctx context.Context, filter extrahours.RecordFilter) (extrahours.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return extrahours.ListRecordResponse{}, err
	}

	owner := ""
	if filter.EmployeeID != nil {
		owner = *filter.EmployeeID
	}
	if err := s.authorizer.Authorize(ctx, authz.CapabilityView, owner); err != nil {
		return extrahours.ListRecordResponse{}, err
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return extrahours.ListRecordResponse{}, fmt.Errorf("failed to list extra hours: %w", err)
	}

	responses := make([]extrahours.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, extrahours.NewRecordResponse(r))
	}

	return extrahours.ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

var _ extrahours.ExtraHoursService = (*ExtraHoursServiceImpl)(nil)
