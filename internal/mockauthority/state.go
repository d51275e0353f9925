package mockauthority

import (
	"sort"
	"sync"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
)

// Admission is an applicant's standing at the authority.
type Admission struct {
	F4IndexNo        string
	Institution      string
	ProgrammeCode    string
	ConfirmationCode string
	Confirmed        bool
	Cancelled        bool
}

// state is the stub's memory. It is process-local and lost on restart.
type state struct {
	mu         sync.RWMutex
	admissions map[string]*Admission
	// submitted holds batch and single submissions keyed by operation and
	// subject key, for duplicate detection and list queries.
	submitted map[operations.Name]map[string]payload.Fields
}

func newState(seed []Admission) *state {
	s := &state{
		admissions: make(map[string]*Admission, len(seed)),
		submitted:  make(map[operations.Name]map[string]payload.Fields),
	}
	for _, a := range seed {
		a := a
		s.admissions[a.F4IndexNo] = &a
	}
	return s
}

func (s *state) admission(f4 string) (Admission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admissions[f4]
	if !ok {
		return Admission{}, false
	}
	return *a, true
}

// update applies fn to the admission under the write lock. It reports false
// when the applicant has no admission.
func (s *state) update(f4 string, fn func(a *Admission)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admissions[f4]
	if !ok {
		return false
	}
	fn(a)
	return true
}

func (s *state) admit(a Admission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admissions[a.F4IndexNo] = &a
}

// submit stores f under key and reports whether it was new.
func (s *state) submit(op operations.Name, key string, f payload.Fields) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.submitted[op]
	if !ok {
		byKey = make(map[string]payload.Fields)
		s.submitted[op] = byKey
	}
	if _, dup := byKey[key]; dup {
		return false
	}
	byKey[key] = append(payload.Fields(nil), f...)
	return true
}

// put stores f under key, replacing any earlier submission.
func (s *state) put(op operations.Name, key string, f payload.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.submitted[op]
	if !ok {
		byKey = make(map[string]payload.Fields)
		s.submitted[op] = byKey
	}
	byKey[key] = append(payload.Fields(nil), f...)
}

func (s *state) lookup(op operations.Name, key string) (payload.Fields, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.submitted[op][key]
	return f, ok
}

// list returns the submissions of op whose field matches value, ordered by
// key. An empty field matches everything.
func (s *state) list(op operations.Name, field, value string) []payload.Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.submitted[op]))
	for k, f := range s.submitted[op] {
		if field == "" || f.Value(field) == value {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]payload.Fields, len(keys))
	for i, k := range keys {
		out[i] = s.submitted[op][k]
	}
	return out
}

func (s *state) admittedTo(programme string) []Admission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Admission
	for _, a := range s.admissions {
		if a.ProgrammeCode == programme && !a.Cancelled {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].F4IndexNo < out[j].F4IndexNo })
	return out
}
