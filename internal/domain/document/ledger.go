package document

import (
	"context"
	"time"

	"haken/internal/domain/contract"
	"haken/internal/platform/pdf"
)

// SourceLedger builds the 派遣元管理台帳: one section per assigned worker.
func (c *Composer) SourceLedger(ctx context.Context, clientContractID string) (pdf.Document, string, error) {
	return c.ledger(ctx, clientContractID, "派遣元管理台帳")
}

// DestinationLedger mirrors the source ledger from the client's side.
func (c *Composer) DestinationLedger(ctx context.Context, clientContractID string) (pdf.Document, string, error) {
	return c.ledger(ctx, clientContractID, "派遣先管理台帳")
}

func (c *Composer) ledger(ctx context.Context, clientContractID, title string) (pdf.Document, string, error) {
	in, err := c.loadClient(ctx, clientContractID)
	if err != nil {
		return pdf.Document{}, "", err
	}

	doc := pdf.Document{
		Title: title,
		Preamble: "対象契約：" + in.contract.ContractName + "（" + in.contract.ContractNumber + "）" +
			"\n派遣先：" + in.client.Name + "　派遣元：" + in.company.Name,
	}

	var workplaceLine, unitLine, degree, respClient, respCompany string
	if in.haken != nil {
		if wp, err := c.clients.GetDepartment(ctx, in.haken.WorkplaceDepartmentID); err == nil {
			workplaceLine = wp.Name + "　" + wp.Address
		}
		if unit, err := c.clients.GetDepartment(ctx, in.haken.UnitDepartmentID); err == nil {
			unitLine = unit.Name
		}
		degree = in.haken.ResponsibilityDegree
		respClient = in.haken.ResponsiblePersonClient
		respCompany = in.haken.ResponsiblePersonCompany
	}

	periods, err := c.contracts.ListAssignmentPeriods(ctx, clientContractID)
	if err != nil {
		return pdf.Document{}, "", err
	}
	for _, p := range periods {
		st, err := c.staffDir.GetByID(ctx, p.StaffID)
		if err != nil {
			return pdf.Document{}, "", err
		}
		ins, err := c.staffDir.GetInsurance(ctx, st.ID)
		if err != nil {
			return pdf.Document{}, "", err
		}

		rows := []pdf.SubItem{
			{Label: "派遣労働者氏名", Body: st.FullName()},
			{Label: "年齢区分", Body: ageBand(st.AgeAt(p.StartDate))},
			{Label: "協定対象", Body: in.company.AgreementTargetLine()},
			{Label: "雇用形態", Body: workerKindText(p.EmploymentType)},
			{Label: "派遣期間", Body: periodText(p.StartDate, p.EndDate)},
			{Label: "派遣先", Body: in.client.Name},
			{Label: "就業場所", Body: workplaceLine},
			{Label: "組織単位", Body: unitLine},
			{Label: "業務内容", Body: in.contract.BusinessContent},
			{Label: "責任の程度", Body: degree},
			{Label: "派遣先責任者", Body: respClient},
			{Label: "派遣元責任者", Body: respCompany},
		}
		for _, line := range insuranceLines(ins) {
			rows = append(rows, pdf.SubItem{Label: "社会保険", Body: line})
		}
		rows = append(rows, pdf.SubItem{Label: "雇用安定措置", Body: "労働者派遣法第30条に基づき実施"})
		doc.Items = append(doc.Items, pdf.Item{Label: st.FullName(), Rows: rows})
	}

	if in.ttp != nil {
		doc.Items = append(doc.Items, ttpGroup(in.ttp))
	}
	return doc, title, nil
}

// TeishokubiNotice builds the 抵触日通知書 for one client contract. The
// conflict date is derived by the restriction calculator and handed in by
// the caller.
func (c *Composer) TeishokubiNotice(ctx context.Context, clientContractID string, conflictDate time.Time) (pdf.Document, string, error) {
	in, err := c.loadClient(ctx, clientContractID)
	if err != nil {
		return pdf.Document{}, "", err
	}

	var workplaceLine string
	if in.haken != nil {
		if wp, err := c.clients.GetDepartment(ctx, in.haken.WorkplaceDepartmentID); err == nil {
			workplaceLine = wp.Name + "\n" + wp.Address
		}
	}

	const title = "抵触日通知書"
	doc := pdf.Document{
		Title:            title,
		ToAddressLines:   []string{in.company.Name + " 御中"},
		FromAddressLines: []string{in.client.Name},
		Preamble:         "労働者派遣法第26条第4項に基づき、事業所単位の期間制限に抵触する日を下記のとおり通知します。",
		Items: []pdf.Item{
			{Label: "第1条（事業所）", Body: workplaceLine},
			{Label: "第2条（抵触日）", Body: formatDate(conflictDate)},
			{Label: "第3条（延長通知）", Body: "派遣可能期間を延長した場合は、速やかに延長後の抵触日を通知する。"},
		},
	}
	return doc, title, nil
}

var _ contract.Composer = (*Composer)(nil)
