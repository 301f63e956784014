package checkers

import (
	"context"
	"fmt"

	"veritrust/internal/verification/models"
)

// DocumentChecker reports a document as valid whenever an expected name is
// supplied, and derives a stable ID number from the document URL.
type DocumentChecker struct{}

func NewDocumentChecker() *DocumentChecker {
	return &DocumentChecker{}
}

func (c *DocumentChecker) Check(_ context.Context, docURL string, expectedName *string) (models.DocumentCheck, error) {
	h := DeterministicScore(docURL)
	idNumber := fmt.Sprintf("%04d-%04d-%04d", int(h*9999), int(h*8888), int(h*7777))

	var name *string
	if expectedName != nil {
		n := *expectedName
		name = &n
	}
	return models.DocumentCheck{
		Fields: models.DocumentFields{
			Name:     name,
			IDNumber: &idNumber,
		},
		DocValid: name != nil && *name != "",
		Tampered: false,
	}, nil
}
