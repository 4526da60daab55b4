package recon

import (
	"context"

	"jirarecon/pkg/models"
)

// Fetcher issues a single GET and returns the status and body
type Fetcher interface {
	Fetch(ctx context.Context, url string) (int, []byte, error)
}

// Store persists documents and user lists relative to the output directory
type Store interface {
	SaveDocument(rel string, raw []byte) (string, error)
	SaveJSON(rel string, v interface{}) (string, error)
}

// Progress is told when a family starts and when it settles
type Progress interface {
	FamilyStarted(family models.Family)
	FamilyFinished(report *FamilyReport)
}

type nopProgress struct{}

func (nopProgress) FamilyStarted(models.Family)  {}
func (nopProgress) FamilyFinished(*FamilyReport) {}
