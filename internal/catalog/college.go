package catalog

import "strings"

// CollegeCode is one of the five known college codes.
type CollegeCode string

const (
	Pomona           CollegeCode = "PO"
	ClaremontMcKenna CollegeCode = "CMC"
	Scripps          CollegeCode = "SC"
	HarveyMudd       CollegeCode = "HMC"
	Pitzer           CollegeCode = "PZ"

	DefaultCollege = Pomona
)

// College is a member college of the consortium.
type College struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Code CollegeCode `json:"code"`
}

// KnownColleges is the fixed seed set. Resolution never creates colleges outside it.
var KnownColleges = []College{
	{Name: "Pomona College", Code: Pomona},
	{Name: "Claremont McKenna College", Code: ClaremontMcKenna},
	{Name: "Scripps College", Code: Scripps},
	{Name: "Harvey Mudd College", Code: HarveyMudd},
	{Name: "Pitzer College", Code: Pitzer},
}

// ParseCollegeCode returns the known code matching s (case-insensitive).
func ParseCollegeCode(s string) (CollegeCode, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range KnownColleges {
		if string(c.Code) == s {
			return c.Code, true
		}
	}
	return "", false
}

// DepartmentNames maps department codes to full names.
type DepartmentNames map[string]string

// DefaultDepartmentNames is used when the configuration supplies no table.
var DefaultDepartmentNames = DepartmentNames{
	"CSCI": "Computer Science",
	"MATH": "Mathematics",
	"BIOL": "Biology",
	"CHEM": "Chemistry",
	"PHYS": "Physics",
	"ECON": "Economics",
	"ENGL": "English",
	"HIST": "History",
	"PSYC": "Psychology",
	"POLI": "Politics",
}

// Name returns the full name of code, or code itself when unknown.
func (d DepartmentNames) Name(code string) string {
	if name, ok := d[code]; ok && name != "" {
		return name
	}
	return code
}
