package document

import (
	"context"
	"errors"

	"haken/internal/domain/master"
	"haken/internal/platform/pdf"
)

// StaffContract builds the 雇用契約書兼労働条件通知書. Pattern clauses are
// substituted and inserted before the notes row.
func (c *Composer) StaffContract(ctx context.Context, id string) (pdf.Document, string, error) {
	sc, err := c.contracts.GetStaffContract(ctx, id)
	if err != nil {
		return pdf.Document{}, "", err
	}
	st, err := c.staffDir.GetByID(ctx, sc.StaffID)
	if err != nil {
		return pdf.Document{}, "", err
	}
	comp, err := c.comp.Get(ctx)
	if err != nil {
		return pdf.Document{}, "", err
	}

	const title = "雇用契約書兼労働条件通知書"
	doc := pdf.Document{
		Title: title,
		Preamble: comp.Name + "（以下「甲」という。）と" + st.FullName() +
			"（以下「乙」という。）とは、次のとおり雇用契約を締結し、労働条件を通知する。",
	}

	values := map[string]string{
		"company_name":     comp.Name,
		"staff_name":       st.FullName(),
		"start_date":       formatDate(sc.StartDate),
		"business_content": sc.BusinessContent,
	}
	if sc.EndDate != nil {
		values["end_date"] = formatDate(*sc.EndDate)
	} else {
		values["end_date"] = "無期限"
	}
	if sc.ContractAmount != nil {
		values["contract_amount"] = groupDigits(*sc.ContractAmount) + "円"
	}

	var pattern master.ContractPattern
	if sc.PatternID != "" {
		pattern, err = c.masters.GetPattern(ctx, sc.PatternID)
		if err != nil && !errors.Is(err, master.ErrNotFound) {
			return pdf.Document{}, "", err
		}
	}

	for _, cl := range pattern.ClausesAt(master.PositionPreamble) {
		doc.Preamble += "\n" + Substitute(cl.Body, values)
	}

	doc.Items = append(doc.Items,
		pdf.Item{Label: "契約番号", Body: sc.ContractNumber},
		pdf.Item{Label: "氏名", Body: st.FullName()},
		pdf.Item{Label: "雇用形態", Body: workerKindText(sc.EmploymentType)},
		pdf.Item{Label: "契約期間", Body: periodText(sc.StartDate, sc.EndDate)},
		pdf.Item{Label: "賃金", Body: amountText(sc.ContractAmount, c.choiceName(ctx, "pay_unit", sc.PayUnit))},
		pdf.Item{Label: "就業場所", Body: sc.WorkLocation},
		pdf.Item{Label: "業務内容", Body: sc.BusinessContent},
		pdf.Item{Label: "就業時間", Body: sc.WorktimeText},
	)

	for _, cl := range pattern.ClausesAt(master.PositionBody) {
		doc.Items = append(doc.Items, pdf.Item{Label: cl.Label, Body: Substitute(cl.Body, values)})
	}

	doc.Items = append(doc.Items, pdf.Item{Label: "備考", Body: sc.Notes})

	for _, cl := range pattern.ClausesAt(master.PositionPostamble) {
		if doc.Postamble != "" {
			doc.Postamble += "\n"
		}
		doc.Postamble += Substitute(cl.Body, values)
	}
	return doc, title, nil
}
