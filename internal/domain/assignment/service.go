package assignment

import (
	"context"
	"errors"
	"log/slog"

	"haken/internal/domain/client"
	"haken/internal/domain/contract"
	"haken/internal/domain/staff"
	"haken/internal/domain/teishokubi"
)

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrEmptyOverlap = errors.New("contract periods do not overlap")
	ErrFrozen       = errors.New("parent contract is no longer editable")
)

// ContractReader is the slice of the contract store the graph needs.
type ContractReader interface {
	GetClientContract(ctx context.Context, id string) (contract.ClientContract, error)
	GetStaffContract(ctx context.Context, id string) (contract.StaffContract, error)
	GetHaken(ctx context.Context, clientContractID string) (*contract.Haken, error)
}

type ClientDirectory interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
	GetDepartment(ctx context.Context, id string) (client.ClientDepartment, error)
}

type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (staff.Staff, error)
}

// Recomputer re-derives the period restriction for one key. Satisfied by
// the teishokubi service.
type Recomputer interface {
	Recompute(ctx context.Context, key teishokubi.Key) error
}

type StoreAPI interface {
	Get(ctx context.Context, id string) (ContractAssignment, error)
	ListByClientContract(ctx context.Context, clientContractID string) ([]ContractAssignment, error)
	ListByStaffContract(ctx context.Context, staffContractID string) ([]ContractAssignment, error)
	Create(ctx context.Context, a ContractAssignment) (ContractAssignment, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store     StoreAPI
	contracts ContractReader
	clients   ClientDirectory
	staffDir  StaffDirectory
	teishoku  Recomputer
}

func NewService(store StoreAPI, contracts ContractReader, clients ClientDirectory, staffDir StaffDirectory, teishoku Recomputer) *Service {
	return &Service{
		store:     store,
		contracts: contracts,
		clients:   clients,
		staffDir:  staffDir,
		teishoku:  teishoku,
	}
}

// Assign links a staff contract to a client contract. The effective
// interval must be non-empty and the dispatch eligibility rules must hold.
// Denormalized keys are copied eagerly so the restriction history survives
// master-data changes.
func (s *Service) Assign(ctx context.Context, clientContractID, staffContractID string) (ContractAssignment, error) {
	cc, err := s.contracts.GetClientContract(ctx, clientContractID)
	if err != nil {
		return ContractAssignment{}, err
	}
	if !contract.Editable(cc.Status) {
		return ContractAssignment{}, ErrFrozen
	}
	sc, err := s.contracts.GetStaffContract(ctx, staffContractID)
	if err != nil {
		return ContractAssignment{}, err
	}

	if _, ok := EffectiveInterval(
		Interval{Start: cc.StartDate, End: cc.EndDate},
		Interval{Start: sc.StartDate, End: sc.EndDate},
	); !ok {
		return ContractAssignment{}, ErrEmptyOverlap
	}

	st, err := s.staffDir.GetByID(ctx, sc.StaffID)
	if err != nil {
		return ContractAssignment{}, err
	}
	cl, err := s.clients.GetByID(ctx, cc.ClientID)
	if err != nil {
		return ContractAssignment{}, err
	}

	h, err := s.contracts.GetHaken(ctx, clientContractID)
	if err != nil {
		return ContractAssignment{}, err
	}
	period := contract.AssignmentPeriod{
		StaffContractID: sc.ID,
		StaffID:         st.ID,
		StaffName:       st.FullName(),
		EmploymentType:  sc.EmploymentType,
		BirthDate:       st.BirthDate,
		StartDate:       sc.StartDate,
		EndDate:         sc.EndDate,
	}
	if err := contract.ValidateAssignment(cc, h, period); err != nil {
		return ContractAssignment{}, err
	}

	created, err := s.store.Create(ctx, ContractAssignment{
		ClientContractID:      clientContractID,
		StaffContractID:       staffContractID,
		StaffEmail:            st.Email,
		ClientCorporateNumber: cl.CorporateNumber,
	})
	if err != nil {
		return ContractAssignment{}, err
	}
	slog.Info("contract assigned",
		"clientContractId", clientContractID, "staffContractId", staffContractID)

	if err := s.recomputeFor(ctx, created, cc, h); err != nil {
		return ContractAssignment{}, err
	}
	return created, nil
}

// Unassign removes the link and recomputes the touched restriction key.
func (s *Service) Unassign(ctx context.Context, id string) error {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	cc, err := s.contracts.GetClientContract(ctx, a.ClientContractID)
	if err != nil {
		return err
	}
	if !contract.Editable(cc.Status) {
		return ErrFrozen
	}
	h, err := s.contracts.GetHaken(ctx, a.ClientContractID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return s.recomputeFor(ctx, a, cc, h)
}

// OnContractPeriodChange recomputes every restriction key touched by the
// client contract after its dates move. Only editable contracts can move
// their dates.
func (s *Service) OnContractPeriodChange(ctx context.Context, clientContractID string) error {
	cc, err := s.contracts.GetClientContract(ctx, clientContractID)
	if err != nil {
		return err
	}
	h, err := s.contracts.GetHaken(ctx, clientContractID)
	if err != nil {
		return err
	}
	list, err := s.store.ListByClientContract(ctx, clientContractID)
	if err != nil {
		return err
	}
	for _, a := range list {
		if err := s.recomputeFor(ctx, a, cc, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListByClientContract(ctx context.Context, clientContractID string) ([]ContractAssignment, error) {
	return s.store.ListByClientContract(ctx, clientContractID)
}

func (s *Service) ListByStaffContract(ctx context.Context, staffContractID string) ([]ContractAssignment, error) {
	return s.store.ListByStaffContract(ctx, staffContractID)
}

// Visual builds the overlap rendering for one client contract.
func (s *Service) Visual(ctx context.Context, clientContractID string) ([]VisualSegment, error) {
	cc, err := s.contracts.GetClientContract(ctx, clientContractID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByClientContract(ctx, clientContractID)
	if err != nil {
		return nil, err
	}

	periods := make([]StaffPeriod, 0, len(list))
	for _, a := range list {
		sc, err := s.contracts.GetStaffContract(ctx, a.StaffContractID)
		if err != nil {
			return nil, err
		}
		periods = append(periods, StaffPeriod{
			StaffContractID: sc.ID,
			Interval:        Interval{Start: sc.StartDate, End: sc.EndDate},
		})
	}
	return IntegratedPeriodVisual(Interval{Start: cc.StartDate, End: cc.EndDate}, periods), nil
}

// recomputeFor derives the restriction key for an assignment and triggers
// the calculator. Work contracts and contracts without a dispatch unit
// carry no restriction.
func (s *Service) recomputeFor(ctx context.Context, a ContractAssignment, cc contract.ClientContract, h *contract.Haken) error {
	if !cc.IsDispatch() || h == nil || h.UnitDepartmentID == "" {
		return nil
	}
	dep, err := s.clients.GetDepartment(ctx, h.UnitDepartmentID)
	if err != nil {
		return err
	}
	return s.teishoku.Recompute(ctx, teishokubi.Key{
		StaffEmail:            a.StaffEmail,
		ClientCorporateNumber: a.ClientCorporateNumber,
		OrganizationName:      dep.Name,
	})
}
