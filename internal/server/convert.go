package server

import (
	"storepilot/internal/domain/entity"
	"storepilot/pkg/rest"
)

func newDomainRunRequest(r rest.RunRequest) entity.RunRequest {
	return entity.RunRequest{
		Goal:         r.Goal,
		Categories:   r.Categories,
		Budget:       r.Budget,
		MinMargin:    r.MinMargin,
		StoreName:    r.StoreName,
		Quantity:     r.Quantity,
		MaxSuppliers: r.MaxSuppliers,
		SendEmails:   r.SendEmails,
		DryRun:       r.DryRun,
		AdCopy:       r.AdCopy,
	}
}

func newRESTStore(s entity.StoreRecord) rest.Store {
	return rest.Store{
		Name:           s.Name,
		Domain:         s.Domain,
		TrialExpiresAt: s.TrialExpiresAt,
		CreatedAt:      s.CreatedAt,
		Existing:       s.Existing,
	}
}

func newRESTAdPrediction(a entity.AdPrediction) rest.AdPrediction {
	return rest.AdPrediction{
		ProductName: a.ProductName,
		Headline:    a.Headline,
		CTR:         a.CTR,
		CPC:         a.CPC,
		ROAS:        a.ROAS,
		Notes:       a.Notes,
	}
}
