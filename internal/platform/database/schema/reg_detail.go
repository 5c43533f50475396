package schema

// RegDetailTable represents the 'reg.detail' table
type RegDetailTable struct {
	Table         string
	Regnum        string
	Scope         string
	TransID       string
	LineNo        string
	LastName      string
	FirstName     string
	MiddleName    string
	Suffix        string
	Designation   string
	Barangay      string
	LGU           string
	Province      string
	ShirtSize     string
	ContactNumber string
	LicenseNo     string
	LicenseExpiry string
	EmailAddress  string
}

// RegDetail is the schema definition for reg.detail
var RegDetail = RegDetailTable{
	Table:         "reg.detail",
	Regnum:        "regnum",
	Scope:         "scope",
	TransID:       "transid",
	LineNo:        "lineno",
	LastName:      "lastname",
	FirstName:     "firstname",
	MiddleName:    "middlename",
	Suffix:        "suffix",
	Designation:   "designation",
	Barangay:      "barangay",
	LGU:           "lgu",
	Province:      "province",
	ShirtSize:     "shirtsize",
	ContactNumber: "contactnumber",
	LicenseNo:     "licenseno",
	LicenseExpiry: "licenseexpiry",
	EmailAddress:  "emailaddress",
}

func (t RegDetailTable) Columns() []string {
	return []string{
		t.Regnum, t.Scope, t.TransID, t.LineNo, t.LastName, t.FirstName,
		t.MiddleName, t.Suffix, t.Designation, t.Barangay, t.LGU, t.Province,
		t.ShirtSize, t.ContactNumber, t.LicenseNo, t.LicenseExpiry, t.EmailAddress,
	}
}
