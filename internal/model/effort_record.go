package model

// RoleInstructorOfRecord is the role assigned to auto-provisioned residency
// effort records.
const RoleInstructorOfRecord = "IOR"

// EffortRecord is one person's effort against one course in a term — maps to
// effort_records. Exactly one of Hours/Weeks is set (database CHECK backs
// this); when Weeks is set it is positive. The unique index on
// (person_id, course_id) makes repeated provisioning converge.
type EffortRecord struct {
	ID           int64    `gorm:"primaryKey"                json:"id"`
	PersonID     int64    `gorm:"not null"                  json:"person_id"`
	TermCode     int      `gorm:"not null;index"            json:"term_code"`
	CourseID     int64    `gorm:"not null"                  json:"course_id"`
	EffortTypeID string   `gorm:"type:varchar(10);not null" json:"effort_type_id"`
	RoleID       string   `gorm:"type:varchar(10);not null" json:"role_id"`
	Hours        *float64 `gorm:"type:numeric(6,2)"         json:"hours,omitempty"`
	Weeks        *int     `gorm:""                          json:"weeks,omitempty"`
	CRN          string   `gorm:"type:varchar(10);not null" json:"crn"`
	ModifiedBy   string   `gorm:"type:varchar(50);not null" json:"modified_by"`
	BaseModel
}

// TableName sets the table name.
func (EffortRecord) TableName() string { return "effort_records" }

// SetHours records the effort in hours and clears weeks.
func (r *EffortRecord) SetHours(hours float64) {
	r.Hours = &hours
	r.Weeks = nil
}

// SetWeeks records the effort in weeks and clears hours.
func (r *EffortRecord) SetWeeks(weeks int) {
	r.Weeks = &weeks
	r.Hours = nil
}
