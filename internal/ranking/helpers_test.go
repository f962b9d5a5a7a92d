package ranking

import (
	"github.com/tripwise/backend/internal/domain/entities"
)

func ptr[T any](v T) *T { return &v }

func lodging(id string, price float64) entities.Candidate {
	return entities.Candidate{ID: id, Kind: entities.CandidateKindLodging, Name: id, Price: price}
}

func dining(id string, price float64) entities.Candidate {
	return entities.Candidate{ID: id, Kind: entities.CandidateKindDining, Name: id, Price: price}
}

func ids(cands []entities.Candidate) []string {
	out := make([]string, len(cands))
	for i := range cands {
		out[i] = cands[i].ID
	}
	return out
}
