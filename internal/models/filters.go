package models

// AssessmentFilter represents filter parameters for querying assessments
type AssessmentFilter struct {
	Label    RiskLabel `form:"label"`    // low, medium, high
	Page     int       `form:"page"`
	PageSize int       `form:"pageSize"`
}

// Normalize applies pagination defaults and limits
func (f *AssessmentFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 100
	}
	if f.PageSize > 1000 {
		f.PageSize = 1000
	}
}

// Offset returns the row offset of the current page
func (f AssessmentFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
