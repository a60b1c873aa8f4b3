package models

// Shift is the rota an operator works.
type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
	ShiftSwing Shift = "swing"
)

// Operator is a shop-floor worker. CurrentAssignment is a free-text line or
// location label; nil means unassigned.
type Operator struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	EmployeeID        string   `json:"employee_id"`
	Shift             Shift    `json:"shift"`
	Skills            []string `json:"skills"`
	CurrentAssignment *string  `json:"current_assignment,omitempty"`
}

// Key returns the in-memory identity of the operator.
func (o Operator) Key() string { return o.ID }

// IsAssigned reports whether the operator has a non-empty current assignment.
func (o Operator) IsAssigned() bool {
	return o.CurrentAssignment != nil && *o.CurrentAssignment != ""
}

// OperatorInput holds the fields required to create an operator.
type OperatorInput struct {
	Name              string   `json:"name" validate:"required"`
	EmployeeID        string   `json:"employee_id" validate:"required"`
	Shift             Shift    `json:"shift" validate:"required,oneof=day night swing"`
	Skills            []string `json:"skills" validate:"dive,required"`
	CurrentAssignment *string  `json:"current_assignment,omitempty"`
}

// OperatorPatch is a partial update of an operator.
type OperatorPatch struct {
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	EmployeeID        *string          `json:"employee_id,omitempty" validate:"omitempty,min=1"`
	Shift             *Shift           `json:"shift,omitempty" validate:"omitempty,oneof=day night swing"`
	Skills            *[]string        `json:"skills,omitempty"`
	CurrentAssignment Optional[string] `json:"current_assignment"`
}

// NormalizeSkills drops duplicate skills, keeping first-seen order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
