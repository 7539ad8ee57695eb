package inmemory

import (
	"sync"

	"famiverse/internal/domain/familiar"
)

type Snapshot struct {
	CareTotal      uint64            `json:"care_total"`
	CareSuccess    uint64            `json:"care_success"`
	CareRejected   uint64            `json:"care_rejected"`
	ByCareAction   map[string]uint64 `json:"by_care_action"`
	MutationTotal  uint64            `json:"mutation_total"`
	ByMutationType map[string]uint64 `json:"by_mutation_type"`
	CycleTotal     uint64            `json:"cycle_total"`
	RemovalTotal   uint64            `json:"removal_total"`
}

type Recorder struct {
	mu           sync.Mutex
	careSuccess  uint64
	careRejected uint64
	byAction     map[string]uint64
	byMutation   map[string]uint64
	cycles       uint64
	removals     uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction:   map[string]uint64{},
		byMutation: map[string]uint64{},
	}
}

func (r *Recorder) RecordCareAction(action familiar.CareAction, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.careSuccess++
		r.byAction[string(action)]++
	} else {
		r.careRejected++
	}
}

func (r *Recorder) RecordMutation(t familiar.MutationType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMutation[string(t)]++
}

func (r *Recorder) RecordCycle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles++
}

func (r *Recorder) RecordRemoval() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removals++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CareSuccess:    r.careSuccess,
		CareRejected:   r.careRejected,
		CareTotal:      r.careSuccess + r.careRejected,
		ByCareAction:   make(map[string]uint64, len(r.byAction)),
		ByMutationType: make(map[string]uint64, len(r.byMutation)),
		CycleTotal:     r.cycles,
		RemovalTotal:   r.removals,
	}
	var mutations uint64
	for k, v := range r.byAction {
		out.ByCareAction[k] = v
	}
	for k, v := range r.byMutation {
		out.ByMutationType[k] = v
		mutations += v
	}
	out.MutationTotal = mutations
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
