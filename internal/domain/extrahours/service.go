package extrahours

import "context"

type ExtraHoursService interface {
	// DeclareOvertime creates a PENDING overtime record; the multiplier defaults from the rate category
	DeclareOvertime(ctx context.Context, req DeclareOvertimeRequest) (RecordResponse, error)

	// DeclareSpecialHours creates a PENDING special-hours record; the hour type selects the default multiplier
	DeclareSpecialHours(ctx context.Context, req DeclareSpecialHoursRequest) (RecordResponse, error)

	// UpdateRecord edits a PENDING record and recomputes its multiplier
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)

	ApproveRecord(ctx context.Context, req DecisionRequest) (RecordResponse, error)
	RejectRecord(ctx context.Context, req DecisionRequest) (RecordResponse, error)

	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
}
