package domain

// FieldKind hints which input widget renders a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindPassword FieldKind = "password"
	KindTextarea FieldKind = "textarea"
)

// FieldView is everything needed to render one input.
type FieldView struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Value    string    `json:"value"`
	Error    string    `json:"error,omitempty"`
	// Secret marks inputs that must not be echoed.
	Secret bool `json:"secret,omitempty"`
}

// DisplayValue returns the value as it should be shown to a user.
func (f FieldView) DisplayValue() string {
	if f.Secret && f.Value != "" {
		return maskedValue
	}
	return f.Value
}

// StepView describes the active step of a form.
// On the review step Fields is empty and Summary is populated.
type StepView struct {
	SessionID  string         `json:"session_id,omitempty"`
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Title      string         `json:"title"`
	Titles     []string       `json:"titles"`
	Fields     []FieldView    `json:"fields,omitempty"`
	Summary    []SummaryEntry `json:"summary,omitempty"`
	Review     bool           `json:"review"`
	CanRetreat bool           `json:"can_retreat"`
	CanAdvance bool           `json:"can_advance"`
	CanSubmit  bool           `json:"can_submit"`
}

// Masked returns a copy of the view with secret values replaced by a mask,
// for front-ends that expose the view to anyone but the typist.
func (v StepView) Masked() StepView {
	if v.Fields != nil {
		fields := make([]FieldView, len(v.Fields))
		for i, f := range v.Fields {
			f.Value = f.DisplayValue()
			fields[i] = f
		}
		v.Fields = fields
	}
	if v.Summary != nil {
		summary := make([]SummaryEntry, len(v.Summary))
		for i, e := range v.Summary {
			e.Value = e.DisplayValue()
			summary[i] = e
		}
		v.Summary = summary
	}
	return v
}
