package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var configErr *schedule.ConfigurationError
	if errors.As(err, &configErr) {
		fail(w, http.StatusBadRequest, CodeInvalidSchedule, "Invalid schedule configuration", map[string]string{configErr.Field: configErr.Reason})
		return
	}

	switch {
	// Caller errors
	case errors.Is(err, authz.ErrMissingSubject):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, authz.ErrForbidden):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrWorkCycleNotFound):
		NotFound(w, "Work cycle not found")
	case errors.Is(err, attendance.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, extrahours.ErrRecordNotFound):
		NotFound(w, "Extra-hours record not found")
	case errors.Is(err, validation.ErrReportNotFound):
		NotFound(w, "Validation report not found")

	// State conflicts
	case errors.Is(err, attendance.ErrDuplicateEntry),
		errors.Is(err, attendance.ErrNoOpenEntry),
		errors.Is(err, approval.ErrAlreadyDecided),
		errors.Is(err, approval.ErrImmutableState),
		errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())

	// Malformed input
	case errors.Is(err, attendance.ErrInvalidRange),
		errors.Is(err, attendance.ErrNegativeHours),
		errors.Is(err, absence.ErrInvalidDateRange),
		errors.Is(err, extrahours.ErrNonPositiveHours),
		errors.Is(err, extrahours.ErrNonPositiveMultiplier),
		errors.Is(err, extrahours.ErrFieldNotApplicable),
		errors.Is(err, schedule.ErrScheduleConfiguration),
		errors.Is(err, schedule.ErrNoApplicablePeriod),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, approval.ErrInvalidDecision),
		errors.Is(err, vocab.ErrUnknownValue):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
