package records

type Student struct {
	ID           int64  `json:"id" db:"id"`
	RollNo       string `json:"roll_no" db:"roll_no"`
	Name         string `json:"name" db:"name"`
	ClassSection string `json:"classSection" db:"class_section"`
	Mark         string `json:"mark" db:"mark"`
}

// StudentFields are the columns supplied when a row is created. Empty strings
// are allowed.
type StudentFields struct {
	RollNo       string `json:"roll_no"`
	Name         string `json:"name"`
	ClassSection string `json:"classSection"`
	Mark         string `json:"mark"`
}

// Student returns an unsaved row carrying f.
func (f StudentFields) Student() Student {
	return Student{
		RollNo:       f.RollNo,
		Name:         f.Name,
		ClassSection: f.ClassSection,
		Mark:         f.Mark,
	}
}

// StudentPatch is a partial update. Nil fields are left untouched.
type StudentPatch struct {
	RollNo       *string `json:"roll_no,omitempty"`
	Name         *string `json:"name,omitempty"`
	ClassSection *string `json:"classSection,omitempty"`
	Mark         *string `json:"mark,omitempty"`
}

func (p StudentPatch) IsEmpty() bool {
	return p.RollNo == nil && p.Name == nil && p.ClassSection == nil && p.Mark == nil
}

// Apply returns s with every non-nil field of p written over it. The ID is
// never changed.
func (p StudentPatch) Apply(s Student) Student {
	if p.RollNo != nil {
		s.RollNo = *p.RollNo
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ClassSection != nil {
		s.ClassSection = *p.ClassSection
	}
	if p.Mark != nil {
		s.Mark = *p.Mark
	}
	return s
}
