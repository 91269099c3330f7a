package company

// Treatment methods under the dispatch law (労使協定方式 / 派遣先均等・均衡方式).
const (
	TreatmentAgreement     = "agreement"
	TreatmentEqualBalanced = "equal_balanced"
)

// Company is the dispatch-source operator. Exactly one row exists; it is
// read-only at render time and treated as injected configuration.
type Company struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	CorporateNumber         string `json:"corporateNumber"`
	Address                 string `json:"address"`
	PhoneNumber             string `json:"phoneNumber"`
	HakenPermitNumber       string `json:"hakenPermitNumber"`
	DispatchTreatmentMethod string `json:"dispatchTreatmentMethod"`
}

// AgreementTargetLine is the treatment line printed on ledgers and
// notifications.
func (c Company) AgreementTargetLine() string {
	if c.DispatchTreatmentMethod == TreatmentAgreement {
		return "労使協定の対象となる派遣労働者に限定"
	}
	return "派遣先均等・均衡方式の対象"
}
