package assignment

import "time"

// ContractAssignment links one client contract to one staff contract. The
// staff email and client corporate number are copied at assign time: they
// are historical snapshots, deliberately untouched by later renames.
type ContractAssignment struct {
	ID                    string     `json:"id"`
	ClientContractID      string     `json:"clientContractId"`
	StaffContractID       string     `json:"staffContractId"`
	StaffEmail            string     `json:"staffEmail"`
	ClientCorporateNumber string     `json:"clientCorporateNumber"`
	IssuedAt              *time.Time `json:"issuedAt,omitempty"`
	ConfirmedAt           *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// Interval is a closed date interval; a nil End means open.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// EffectiveInterval intersects the two contract windows. ok is false when
// the intersection is empty; such a pair cannot be assigned.
func EffectiveInterval(client, staff Interval) (Interval, bool) {
	start := client.Start
	if staff.Start.After(start) {
		start = staff.Start
	}

	var end *time.Time
	switch {
	case client.End == nil:
		end = staff.End
	case staff.End == nil:
		end = client.End
	case staff.End.Before(*client.End):
		end = staff.End
	default:
		end = client.End
	}

	if end != nil && end.Before(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// VisualSegment places one staff period on a 0-100 canvas where the client
// window occupies 15 to 85.
type VisualSegment struct {
	StaffContractID string  `json:"staffContractId"`
	Left            float64 `json:"left"`
	Width           float64 `json:"width"`
	ExtendsBefore   bool    `json:"extendsBefore"`
	ExtendsAfter    bool    `json:"extendsAfter"`
}

const (
	canvasLeft  = 15.0
	canvasRight = 85.0
)

// StaffPeriod is one input to the visual derivation.
type StaffPeriod struct {
	StaffContractID string
	Interval        Interval
}

// IntegratedPeriodVisual scales each staff period against the client
// window. Periods reaching beyond the window are clamped to the canvas
// edge and flagged. An open client end extends the window to the latest
// staff end, or one year past the client start when everything is open.
func IntegratedPeriodVisual(client Interval, periods []StaffPeriod) []VisualSegment {
	winStart := client.Start
	winEnd := windowEnd(client, periods)
	span := winEnd.Sub(winStart)
	if span <= 0 {
		span = 24 * time.Hour
	}

	scale := func(t time.Time) float64 {
		pos := canvasLeft + (canvasRight-canvasLeft)*float64(t.Sub(winStart))/float64(span)
		if pos < 0 {
			return 0
		}
		if pos > 100 {
			return 100
		}
		return pos
	}

	out := make([]VisualSegment, 0, len(periods))
	for _, p := range periods {
		seg := VisualSegment{StaffContractID: p.StaffContractID}
		seg.ExtendsBefore = p.Interval.Start.Before(winStart)

		end := winEnd
		if p.Interval.End == nil || p.Interval.End.After(winEnd) {
			seg.ExtendsAfter = true
		} else {
			end = *p.Interval.End
		}

		left := scale(p.Interval.Start)
		right := scale(end)
		seg.Left = left
		seg.Width = right - left
		out = append(out, seg)
	}
	return out
}

func windowEnd(client Interval, periods []StaffPeriod) time.Time {
	if client.End != nil {
		return *client.End
	}
	latest := client.Start.AddDate(1, 0, 0)
	for _, p := range periods {
		if p.Interval.End != nil && p.Interval.End.After(latest) {
			latest = *p.Interval.End
		}
	}
	return latest
}
