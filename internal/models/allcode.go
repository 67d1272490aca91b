package models

// Allcode types
const (
	CodeTypeStatus = "STATUS"
	CodeTypeTime   = "TIME"
	CodeTypeRole   = "ROLE"
)

// Allcode is the read-only reference-code table: an opaque keyMap plus a
// type resolving to display values. The engine only validates membership;
// mutating this table is an administrative concern handled elsewhere.
type Allcode struct {
	BaseModel
	KeyMap  string `gorm:"size:20;not null;uniqueIndex:idx_allcode_type_key" json:"keyMap"`
	Type    string `gorm:"size:20;not null;uniqueIndex:idx_allcode_type_key" json:"type"`
	ValueEn string `gorm:"size:255" json:"valueEn"`
	ValueVi string `gorm:"size:255" json:"valueVi"`
}

// TimeType is a time-slot reference code (type TIME).
type TimeType string

const (
	TimeT1 TimeType = "T1"
	TimeT2 TimeType = "T2"
	TimeT3 TimeType = "T3"
	TimeT4 TimeType = "T4"
	TimeT5 TimeType = "T5"
	TimeT6 TimeType = "T6"
	TimeT7 TimeType = "T7"
	TimeT8 TimeType = "T8"
)

// TimeTypes lists every valid time-slot code.
func TimeTypes() []TimeType {
	return []TimeType{TimeT1, TimeT2, TimeT3, TimeT4, TimeT5, TimeT6, TimeT7, TimeT8}
}

// RoleCodes lists the reference codes backing the Role enum.
func RoleCodes() []string {
	return []string{"R1", "R2", "R3"}
}
