package model

// PercentAssignment is a person's standing percentage-of-effort assignment for
// a term — maps to percent_assignments. The fall-to-fall rollover workflow
// copies these forward; unique per (person, term).
type PercentAssignment struct {
	ID         int64   `gorm:"primaryKey"                json:"id"`
	PersonID   int64   `gorm:"not null"                  json:"person_id"`
	TermCode   int     `gorm:"not null;index"            json:"term_code"`
	Percent    float64 `gorm:"type:numeric(5,2);not null" json:"percent"`
	EffortDept string  `gorm:"type:varchar(50)"          json:"effort_dept,omitempty"`
	ModifiedBy string  `gorm:"type:varchar(50);not null" json:"modified_by"`
	BaseModel
}

// TableName sets the table name.
func (PercentAssignment) TableName() string { return "percent_assignments" }
