package contract

import (
	"context"
	"time"
)

// StoreAPI is the persistence surface of the contract core. Transition
// methods are atomic check-and-update: they return ErrIllegalTransition when
// the row is not in the required state, so exactly one of two concurrent
// callers succeeds.
type StoreAPI interface {
	GetClientContract(ctx context.Context, id string) (ClientContract, error)
	GetStaffContract(ctx context.Context, id string) (StaffContract, error)
	GetHaken(ctx context.Context, clientContractID string) (*Haken, error)
	GetTtp(ctx context.Context, clientContractID string) (*Ttp, error)
	GetExempt(ctx context.Context, clientContractID string) (*HakenExempt, error)
	ListAssignmentPeriods(ctx context.Context, clientContractID string) ([]AssignmentPeriod, error)

	SubmitClientContract(ctx context.Context, id string) error
	// ApproveClientContract allocates the contract number and moves
	// PENDING to APPROVED in one transaction; a failed approve consumes no
	// number.
	ApproveClientContract(ctx context.Context, id, clientCode, by string, at time.Time) (string, error)
	// FinalizeClientIssue moves APPROVED to ISSUED and appends the print
	// rows atomically. Blobs referenced by the rows must already be stored.
	FinalizeClientIssue(ctx context.Context, id string, at time.Time, by string, prints []PrintRow) error
	SetClientQuotationIssued(ctx context.Context, id string, at time.Time, print PrintRow) error
	ConfirmClientContract(ctx context.Context, id string, at time.Time) error
	UnconfirmClientContract(ctx context.Context, id string) error
	// UnapproveClientContract resets any status >= APPROVED back to DRAFT,
	// clears the number and transition timestamps, resets assignment-level
	// issued/confirmed marks, and leaves print rows untouched.
	UnapproveClientContract(ctx context.Context, id string) error

	SubmitStaffContract(ctx context.Context, id string) error
	ApproveStaffContract(ctx context.Context, id, employeeNo, by string, at time.Time) (string, error)
	FinalizeStaffIssue(ctx context.Context, id string, at time.Time, by string, prints []PrintRow) error
	ConfirmStaffContract(ctx context.Context, id string, at time.Time) error
	UnconfirmStaffContract(ctx context.Context, id string) error
	UnapproveStaffContract(ctx context.Context, id string) error

	ListClientPrints(ctx context.Context, clientContractID string) ([]PrintRow, error)
	ListStaffPrints(ctx context.Context, staffContractID string) ([]PrintRow, error)
	GetClientPrint(ctx context.Context, printID string) (PrintRow, error)
	GetStaffPrint(ctx context.Context, printID string) (PrintRow, error)
}
