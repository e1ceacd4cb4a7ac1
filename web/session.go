package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TuftsBCB/mutview/cbio"
	"github.com/TuftsBCB/mutview/pdb"
)

const sessionCookie = "mutview_session"

// structureState is what the structure page shows for one session.
type structureState struct {
	Identifier string
	Source     string
	Mutations  string

	Payload template.HTML
	Tally   []pdb.ResidueCount
	Entry   *pdb.Entry

	// RMSD per chain between the fetched and the mutated structure. Only set
	// when a mutation changed the structure.
	RMSD map[byte]float64

	Notes    []string
	Warnings []string
	Error    string
}

// mutationState is what the mutation table page shows for one session.
type mutationState struct {
	Cohort string
	Top    []cbio.Mutation
	Total  int
	Error  string
}

// session is the in-memory state of one browser. Fields other than id are
// guarded by mu.
type session struct {
	id string

	mu        sync.Mutex
	lastSeen  time.Time
	structure *structureState
	mutations *mutationState
}

func (s *session) getStructure() *structureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.structure
}

func (s *session) setStructure(st *structureState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structure = st
}

func (s *session) getMutations() *mutationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations
}

func (s *session) setMutations(st *mutationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations = st
}

// sessionStore keeps sessions until they have been idle for ttl.
type sessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// get returns the session of the request, starting a new one (and setting
// its cookie) if the request has none or it has expired.
func (st *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.expire(now)

	if c, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := st.sessions[c.Value]; ok {
			s.mu.Lock()
			s.lastSeen = now
			s.mu.Unlock()
			return s
		}
	}

	s := &session{id: uuid.NewString(), lastSeen: now}
	st.sessions[s.id] = s
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Debug("web: new session", "session", s.id)
	return s
}

// lookup returns an existing session without creating one.
func (st *sessionStore) lookup(r *http.Request) *session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.expire(now)
	s := st.sessions[c.Value]
	if s != nil {
		s.mu.Lock()
		s.lastSeen = now
		s.mu.Unlock()
	}
	return s
}

// expire drops idle sessions. st.mu must be held.
func (st *sessionStore) expire(now time.Time) {
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			slog.Debug("web: session expired", "session", id, "idle", idle)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
