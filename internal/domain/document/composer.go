package document

import (
	"context"
	"errors"
	"fmt"

	"haken/internal/domain/client"
	"haken/internal/domain/company"
	"haken/internal/domain/contract"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
	"haken/internal/platform/pdf"
)

// Contracts is the read slice of the contract store the composers need.
type Contracts interface {
	GetClientContract(ctx context.Context, id string) (contract.ClientContract, error)
	GetStaffContract(ctx context.Context, id string) (contract.StaffContract, error)
	GetHaken(ctx context.Context, clientContractID string) (*contract.Haken, error)
	GetTtp(ctx context.Context, clientContractID string) (*contract.Ttp, error)
	ListAssignmentPeriods(ctx context.Context, clientContractID string) ([]contract.AssignmentPeriod, error)
}

type Clients interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
	GetDepartment(ctx context.Context, id string) (client.ClientDepartment, error)
}

type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (staff.Staff, error)
	GetInsurance(ctx context.Context, staffID string) (staff.InsuranceEnrollment, error)
}

type Masters interface {
	GetPattern(ctx context.Context, id string) (master.ContractPattern, error)
	GetJobCategory(ctx context.Context, id string) (master.JobCategory, error)
	Lookup(ctx context.Context, category, value string) (master.Dropdown, error)
}

type CompanyProvider interface {
	Get(ctx context.Context) (company.Company, error)
}

// Composer assembles every document kind into the canonical intermediate
// form. It never renders; the renderer is a separate concern.
type Composer struct {
	contracts Contracts
	clients   Clients
	staffDir  StaffDirectory
	masters   Masters
	comp      CompanyProvider
}

func NewComposer(contracts Contracts, clients Clients, staffDir StaffDirectory, masters Masters, comp CompanyProvider) *Composer {
	return &Composer{
		contracts: contracts,
		clients:   clients,
		staffDir:  staffDir,
		masters:   masters,
		comp:      comp,
	}
}

type clientDocInput struct {
	contract contract.ClientContract
	client   client.Client
	haken    *contract.Haken
	ttp      *contract.Ttp
	company  company.Company
}

func (c *Composer) loadClient(ctx context.Context, id string) (clientDocInput, error) {
	var in clientDocInput
	var err error

	if in.contract, err = c.contracts.GetClientContract(ctx, id); err != nil {
		return in, err
	}
	if in.client, err = c.clients.GetByID(ctx, in.contract.ClientID); err != nil {
		return in, err
	}
	if in.haken, err = c.contracts.GetHaken(ctx, id); err != nil {
		return in, err
	}
	if in.ttp, err = c.contracts.GetTtp(ctx, id); err != nil {
		return in, err
	}
	if in.company, err = c.comp.Get(ctx); err != nil {
		return in, err
	}
	return in, nil
}

// ClientContract builds the individual contract document: the dispatch
// variant for type DISPATCH, the plain work variant otherwise.
func (c *Composer) ClientContract(ctx context.Context, id string) (pdf.Document, string, error) {
	in, err := c.loadClient(ctx, id)
	if err != nil {
		return pdf.Document{}, "", err
	}

	title := "業務委託個別契約書"
	if in.contract.IsDispatch() {
		title = "労働者派遣個別契約書"
	}

	doc := pdf.Document{
		Title: title,
		Preamble: fmt.Sprintf("%s（以下「甲」という。）と%s（以下「乙」という。）とは、次のとおり契約を締結する。",
			in.client.Name, in.company.Name),
	}

	doc.Items = append(doc.Items,
		pdf.Item{Label: "契約番号", Body: in.contract.ContractNumber},
		pdf.Item{Label: "クライアント", Body: in.client.Name},
		pdf.Item{Label: "契約件名", Body: in.contract.ContractName},
		pdf.Item{Label: "契約期間", Body: periodText(in.contract.StartDate, in.contract.EndDate)},
		pdf.Item{Label: "契約金額", Body: amountText(in.contract.ContractAmount, c.choiceName(ctx, "bill_unit", in.contract.BillUnit))},
		pdf.Item{Label: "支払サイト", Body: c.choiceName(ctx, "payment_site", in.contract.PaymentSite)},
		pdf.Item{Label: "業務内容", Body: in.contract.BusinessContent},
	)

	if in.contract.IsDispatch() && in.haken != nil {
		items, err := c.hakenItems(ctx, in)
		if err != nil {
			return pdf.Document{}, "", err
		}
		doc.Items = append(doc.Items, items...)

		if in.ttp != nil {
			doc.Items = append(doc.Items, ttpGroup(in.ttp))
		}
		doc.Items = append(doc.Items,
			pdf.Item{Label: "協定対象派遣労働者に限定するか否かの別", Body: limitText(in.haken.LimitByAgreement)},
			pdf.Item{Label: "無期雇用又は60歳以上に限定するか否かの別", Body: limitText(in.haken.LimitIndefiniteOrSenior)},
			pdf.Item{Label: "派遣元事業主の許可番号", Body: in.company.HakenPermitNumber},
		)
	}

	doc.Items = append(doc.Items, pdf.Item{Label: "備考", Body: in.contract.Notes})
	return doc, title, nil
}

// hakenItems renders the dispatch block. Responsible-person labels change
// under manufacturing dispatch.
func (c *Composer) hakenItems(ctx context.Context, in clientDocInput) ([]pdf.Item, error) {
	h := in.haken

	workplace, err := c.clients.GetDepartment(ctx, h.WorkplaceDepartmentID)
	if err != nil {
		return nil, err
	}
	unit, err := c.clients.GetDepartment(ctx, h.UnitDepartmentID)
	if err != nil {
		return nil, err
	}

	manufacturing := false
	if in.contract.JobCategoryID != "" {
		jc, err := c.masters.GetJobCategory(ctx, in.contract.JobCategoryID)
		if err != nil && !errors.Is(err, master.ErrNotFound) {
			return nil, err
		}
		manufacturing = err == nil && jc.IsManufacturingDispatch
	}
	respLabelClient := "派遣先責任者"
	respLabelCompany := "派遣元責任者"
	if manufacturing {
		respLabelClient = "製造業務専門派遣先責任者"
		respLabelCompany = "製造業務専門派遣元責任者"
	}

	return []pdf.Item{
		{Label: "責任の程度", Body: h.ResponsibilityDegree},
		{Label: "派遣先事業所", Body: workplace.Name + "\n" + workplace.Address},
		{Label: "就業場所", Body: h.WorkLocation},
		{Label: "組織単位", Body: unit.Name + "（" + unit.ManagerTitle + "）"},
		{Label: "指揮命令者", Body: h.Commander},
		{Label: "苦情申出先", Rows: []pdf.SubItem{
			{Label: "派遣先", Body: h.ComplaintOfficerClient},
			{Label: "派遣元", Body: h.ComplaintOfficerCompany},
		}},
		{Label: "責任者", Rows: []pdf.SubItem{
			{Label: respLabelClient, Body: h.ResponsiblePersonClient},
			{Label: respLabelCompany, Body: h.ResponsiblePersonCompany},
		}},
	}, nil
}

func ttpGroup(t *contract.Ttp) pdf.Item {
	return pdf.Item{
		Label: "紹介予定派遣に関する事項",
		Rows: []pdf.SubItem{
			{Label: "雇用しようとする場合の労働条件", Body: t.EmploymentPlanned},
			{Label: "試用期間", Body: t.ProbationPeriod},
			{Label: "雇用された場合の賃金", Body: t.WageOnHire},
			{Label: "雇用された場合の社会保険", Body: t.InsuranceOnHire},
			{Label: "雇用された場合の休日", Body: t.HolidaysOnHire},
		},
	}
}

func limitText(flag string) string {
	if flag == contract.LimitLimited {
		return "限定する"
	}
	return "限定しない"
}

// ClientQuotation reuses the contract facts in quotation form.
func (c *Composer) ClientQuotation(ctx context.Context, id string) (pdf.Document, string, error) {
	in, err := c.loadClient(ctx, id)
	if err != nil {
		return pdf.Document{}, "", err
	}

	const title = "見積書"
	doc := pdf.Document{
		Title:            title,
		ToAddressLines:   []string{in.client.Name + " 御中"},
		FromAddressLines: []string{in.company.Name, in.company.Address, "TEL " + in.company.PhoneNumber},
		Preamble:         "下記のとおりお見積り申し上げます。",
		Items: []pdf.Item{
			{Label: "件名", Body: in.contract.ContractName},
			{Label: "契約期間", Body: periodText(in.contract.StartDate, in.contract.EndDate)},
			{Label: "御見積金額", Body: amountText(in.contract.ContractAmount, c.choiceName(ctx, "bill_unit", in.contract.BillUnit))},
			{Label: "支払条件", Body: c.choiceName(ctx, "payment_site", in.contract.PaymentSite)},
			{Label: "業務内容", Body: in.contract.BusinessContent},
		},
		Postamble: "本見積の有効期限は発行日より30日間とします。",
	}
	return doc, title, nil
}

// DispatchNotification builds the 派遣先通知書: one rowspan group per
// assigned worker.
func (c *Composer) DispatchNotification(ctx context.Context, id string) (pdf.Document, string, error) {
	in, err := c.loadClient(ctx, id)
	if err != nil {
		return pdf.Document{}, "", err
	}

	const title = "派遣先通知書"
	doc := pdf.Document{
		Title:            title,
		ToAddressLines:   []string{in.client.Name + " 御中"},
		FromAddressLines: []string{in.company.Name, in.company.Address},
		Preamble: "労働者派遣法第35条に基づき、下記のとおり派遣労働者について通知します。対象契約：" +
			in.contract.ContractName + "（" + in.contract.ContractNumber + "）",
	}

	periods, err := c.contracts.ListAssignmentPeriods(ctx, id)
	if err != nil {
		return pdf.Document{}, "", err
	}
	for _, p := range periods {
		group, err := c.workerGroup(ctx, in.company, p)
		if err != nil {
			return pdf.Document{}, "", err
		}
		doc.Items = append(doc.Items, group)
	}
	return doc, title, nil
}

func (c *Composer) workerGroup(ctx context.Context, comp company.Company, p contract.AssignmentPeriod) (pdf.Item, error) {
	st, err := c.staffDir.GetByID(ctx, p.StaffID)
	if err != nil {
		return pdf.Item{}, err
	}
	ins, err := c.staffDir.GetInsurance(ctx, st.ID)
	if err != nil {
		return pdf.Item{}, err
	}

	rows := []pdf.SubItem{
		{Label: "氏名", Body: st.FullName()},
		{Label: "性別", Body: c.choiceName(ctx, "sex", st.Sex)},
		{Label: "年齢区分", Body: ageBand(st.AgeAt(p.StartDate))},
		{Label: "雇用形態", Body: workerKindText(p.EmploymentType)},
		{Label: "協定対象", Body: comp.AgreementTargetLine()},
	}
	for _, line := range insuranceLines(ins) {
		rows = append(rows, pdf.SubItem{Label: "社会保険", Body: line})
	}
	return pdf.Item{Label: st.FullName(), Rows: rows}, nil
}

// choiceName resolves a dropdown value to its display label, falling back
// to the raw value when the master row is gone.
func (c *Composer) choiceName(ctx context.Context, category, value string) string {
	if value == "" {
		return ""
	}
	d, err := c.masters.Lookup(ctx, category, value)
	if err != nil {
		return value
	}
	return d.Name
}
