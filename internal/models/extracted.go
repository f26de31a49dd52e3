package models

// ExtractedFields is the partial medication record inferred from a scanned
// label. Every field is optional; the zero value means the extractor could
// not recognize it. It is always merged into an editable draft, never
// persisted directly.
type ExtractedFields struct {
	Name         string    `json:"name,omitempty"`
	Dosage       string    `json:"dosage,omitempty"`
	Frequency    Frequency `json:"frequency,omitempty"`
	Times        []string  `json:"times,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

// IsEmpty reports whether nothing at all was recognized.
func (e ExtractedFields) IsEmpty() bool {
	return e.Name == "" && e.Dosage == "" && e.Frequency == "" &&
		len(e.Times) == 0 && e.Instructions == ""
}

// MergeInto fills draft fields that are still at their zero value. Fields the
// user already edited are left alone, so a rescan never clobbers manual input.
func (e ExtractedFields) MergeInto(draft *Medication) {
	if draft.Name == "" && e.Name != "" {
		draft.Name = e.Name
	}
	if draft.Dosage == "" && e.Dosage != "" {
		draft.Dosage = e.Dosage
	}
	if draft.Frequency == "" && e.Frequency != "" {
		draft.Frequency = e.Frequency
	}
	if len(draft.Times) == 0 && len(e.Times) > 0 {
		draft.Times = append([]string(nil), e.Times...)
	}
	if draft.Instructions == "" && e.Instructions != "" {
		draft.Instructions = e.Instructions
	}
}
