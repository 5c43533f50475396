package schema

// RegPaymentProofTable represents the 'reg.paymentproof' table
type RegPaymentProofTable struct {
	Table      string
	Regnum     string
	Scope      string
	Seq        string
	ObjectKey  string
	URL        string
	UploadedAt string
}

// RegPaymentProof is the schema definition for reg.paymentproof
var RegPaymentProof = RegPaymentProofTable{
	Table:      "reg.paymentproof",
	Regnum:     "regnum",
	Scope:      "scope",
	Seq:        "seq",
	ObjectKey:  "objectkey",
	URL:        "url",
	UploadedAt: "uploadedat",
}

func (t RegPaymentProofTable) Columns() []string {
	return []string{t.Regnum, t.Scope, t.Seq, t.ObjectKey, t.URL, t.UploadedAt}
}
