package legalcaseRepo

import "lexcitas/models"

// LegalCaseRepository defines read access to the practice's case records.
type LegalCaseRepository interface {
	// GetByCaseNumber retrieves a case by its number. Returns nil when not
	// found.
	GetByCaseNumber(caseNumber string) (*models.LegalCase, error)
	// GetLatestByEmail retrieves the most recently updated case for a
	// client email. Returns nil when none exists.
	GetLatestByEmail(email string) (*models.LegalCase, error)
}
