package ports

import "famiverse/internal/domain/familiar"

type Metrics interface {
	RecordCareAction(action familiar.CareAction, ok bool)
	RecordMutation(t familiar.MutationType)
	RecordCycle()
	RecordRemoval()
}
