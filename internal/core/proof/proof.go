package proof

import "time"

// Proof is one uploaded payment-proof file, keyed by
// (registration, scope, upload sequence number starting at 1).
type Proof struct {
	Regnum     int       `json:"-"`
	Scope      string    `json:"-"`
	Seq        int       `json:"seq"`
	ObjectKey  string    `json:"-"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Content types accepted for payment-proof uploads, with their object-key
// extensions.
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}
