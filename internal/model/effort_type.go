package model

// EffortType is a configured category of instructional effort — maps to
// effort_types. A type records effort in either hours or weeks, never both.
type EffortType struct {
	ID                string `gorm:"type:varchar(10);primaryKey"   json:"id"`
	Description       string `gorm:"type:varchar(200);not null"    json:"description"`
	IsActive          bool   `gorm:"not null;default:true"         json:"is_active"`
	UsesWeeks         bool   `gorm:"not null;default:false"        json:"uses_weeks"`
	AllowedOnRCourses bool   `gorm:"not null;default:false"        json:"allowed_on_r_courses"`
}

// TableName sets the table name.
func (EffortType) TableName() string { return "effort_types" }
