package replay

import "famiverse/internal/domain/familiar"

type Request struct {
	FamiliarID   string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	Events []familiar.Event `json:"events"`
}
