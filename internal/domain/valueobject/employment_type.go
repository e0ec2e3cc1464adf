package valueobject

import "fmt"

// EmploymentType is an immutable value object for the applicant's income source.
type EmploymentType struct {
	value string
}

var (
	EmploymentTypeW2           = EmploymentType{value: "W2"}
	EmploymentTypeSelfEmployed = EmploymentType{value: "Self-Employed"}
	EmploymentTypeCashPaid     = EmploymentType{value: "Cash Paid"}
	EmploymentType1099         = EmploymentType{value: "1099"}
)

// EmploymentTypes lists every accepted employment type in display order.
func EmploymentTypes() []EmploymentType {
	return []EmploymentType{
		EmploymentTypeW2,
		EmploymentTypeSelfEmployed,
		EmploymentTypeCashPaid,
		EmploymentType1099,
	}
}

// EmploymentTypeFromString reconstructs an EmploymentType from its string representation.
func EmploymentTypeFromString(s string) (EmploymentType, error) {
	switch s {
	case "W2":
		return EmploymentTypeW2, nil
	case "Self-Employed":
		return EmploymentTypeSelfEmployed, nil
	case "Cash Paid":
		return EmploymentTypeCashPaid, nil
	case "1099":
		return EmploymentType1099, nil
	default:
		return EmploymentType{}, fmt.Errorf("invalid employment type: %q", s)
	}
}

// IsUnstable reports whether income is paid outside payroll (Cash Paid or 1099).
func (e EmploymentType) IsUnstable() bool {
	return e == EmploymentTypeCashPaid || e == EmploymentType1099
}

// String returns the string representation.
func (e EmploymentType) String() string {
	return e.value
}

// IsZero returns true if the EmploymentType has not been set.
func (e EmploymentType) IsZero() bool {
	return e.value == ""
}

// Equal checks equality with another EmploymentType.
func (e EmploymentType) Equal(other EmploymentType) bool {
	return e.value == other.value
}
