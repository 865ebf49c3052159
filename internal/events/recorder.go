package events

import "sync"

// Recorder es un Dispatcher que acumula lo publicado. Usar sólo en tests.
type Recorder struct {
	mu      sync.Mutex
	Created []RecordedCreate
	Updated []RecordedUpdate
	Deleted []string
}

type RecordedCreate struct {
	Audience Audience
	Case     any
}

type RecordedUpdate struct {
	Audience Audience
	CaseID   string
	Changes  map[string]any
	Case     any
}

func (r *Recorder) CaseCreated(aud Audience, caseView any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created = append(r.Created, RecordedCreate{Audience: aud, Case: caseView})
}

func (r *Recorder) CaseUpdated(aud Audience, caseID string, changes map[string]any, caseView any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updated = append(r.Updated, RecordedUpdate{Audience: aud, CaseID: caseID, Changes: changes, Case: caseView})
}

func (r *Recorder) CaseDeleted(caseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted = append(r.Deleted, caseID)
}
