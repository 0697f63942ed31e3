package model

// Fixed fields of the generic residency placeholder course. At most one such
// course exists per term, enforced by the unique index on (term_code, crn).
const (
	ResidencyCRN      = "RESID"
	ResidencySubjCode = "RES"
	ResidencyCrseNumb = "000R"
	ResidencySeqNumb  = "001"
)

// Course is a scheduled (or placeholder) course offering — maps to courses.
type Course struct {
	ID         int64  `gorm:"primaryKey"                 json:"id"`
	TermCode   int    `gorm:"not null;index"             json:"term_code"`
	CRN        string `gorm:"type:varchar(10);not null"  json:"crn"`
	SubjCode   string `gorm:"type:varchar(10);not null"  json:"subj_code"`
	CrseNumb   string `gorm:"type:varchar(10);not null"  json:"crse_numb"`
	SeqNumb    string `gorm:"type:varchar(10);not null"  json:"seq_numb"`
	Units      int    `gorm:"not null;default:0"         json:"units"`
	Enrollment int    `gorm:"not null;default:0"         json:"enrollment"`
	CustDept   string `gorm:"type:varchar(50)"           json:"cust_dept,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (Course) TableName() string { return "courses" }

// IsResidency reports whether this is the generic residency placeholder.
func (c *Course) IsResidency() bool { return c.CRN == ResidencyCRN }

// NewResidencyCourse builds the placeholder course for a term with its fixed fields.
func NewResidencyCourse(termCode int) *Course {
	return &Course{
		TermCode:   termCode,
		CRN:        ResidencyCRN,
		SubjCode:   ResidencySubjCode,
		CrseNumb:   ResidencyCrseNumb,
		SeqNumb:    ResidencySeqNumb,
		Units:      0,
		Enrollment: 0,
	}
}
