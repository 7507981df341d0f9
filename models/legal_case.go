package models

import "time"

// LegalCase is a matter the practice handles. The chat only ever reads
// these; case management happens in the admin panel.
type LegalCase struct {
	CaseNumber  string    `bson:"caseNumber" json:"caseNumber"`
	ClientEmail string    `bson:"clientEmail" json:"clientEmail"`
	Title       string    `bson:"title" json:"title"`
	Status      string    `bson:"status" json:"status"`
	LastUpdate  time.Time `bson:"lastUpdate" json:"lastUpdate"`
	// VerificationCodeHash is the bcrypt hash of the code the practice
	// hands the client for phone/chat lookups. The plain code is never
	// stored.
	VerificationCodeHash string `bson:"verificationCodeHash" json:"-"`
}
