package schema

// RegHeaderTable represents the 'reg.header' table
type RegHeaderTable struct {
	Table         string
	Regnum        string
	TransID       string
	Scope         string
	Province      string
	LGU           string
	ContactPerson string
	ContactNumber string
	EmailAddress  string
	CreatedAt     string
	Status        string
	Remarks       string
	ProofRef      string
}

// RegHeader is the schema definition for reg.header
var RegHeader = RegHeaderTable{
	Table:         "reg.header",
	Regnum:        "regnum",
	TransID:       "transid",
	Scope:         "scope",
	Province:      "province",
	LGU:           "lgu",
	ContactPerson: "contactperson",
	ContactNumber: "contactnumber",
	EmailAddress:  "emailaddress",
	CreatedAt:     "createdat",
	Status:        "status",
	Remarks:       "remarks",
	ProofRef:      "proofref",
}

func (t RegHeaderTable) Columns() []string {
	return []string{
		t.Regnum, t.TransID, t.Scope, t.Province, t.LGU, t.ContactPerson,
		t.ContactNumber, t.EmailAddress, t.CreatedAt, t.Status, t.Remarks, t.ProofRef,
	}
}
