// Package memory is an in-process implementation of repository.Store with
// the same uniqueness and transactional guarantees as the postgres store.
// It backs tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

type data struct {
	identities   map[string]entity.Identity
	students     map[string]entity.StudentProfile
	recruiters   map[string]entity.RecruiterProfile
	jobs         map[string]entity.Job
	applications map[string]entity.Application
	// insertion order, used to break created_at ties
	seq  map[string]uint64
	next uint64
}

func newData() *data {
	return &data{
		identities:   map[string]entity.Identity{},
		students:     map[string]entity.StudentProfile{},
		recruiters:   map[string]entity.RecruiterProfile{},
		jobs:         map[string]entity.Job{},
		applications: map[string]entity.Application{},
		seq:          map[string]uint64{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.identities {
		c.identities[k] = cloneIdentity(v)
	}
	for k, v := range d.students {
		c.students[k] = cloneStudent(v)
	}
	for k, v := range d.recruiters {
		c.recruiters[k] = cloneRecruiter(v)
	}
	for k, v := range d.jobs {
		c.jobs[k] = cloneJob(v)
	}
	for k, v := range d.applications {
		c.applications[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	c.next = d.next
	return c
}

func (d *data) register(id string) {
	d.next++
	d.seq[id] = d.next
}

type state struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
}

// Store is safe for concurrent use. Transactions are serialized; a failed
// transaction restores the snapshot taken when it began.
type Store struct {
	st   *state
	inTx bool
	now  func() time.Time
}

func New() *Store {
	return &Store{st: &state{d: newData()}, now: time.Now}
}

func (s *Store) Identities() repository.IdentityRepository {
	return identityRepo{s}
}

func (s *Store) Students() repository.StudentRepository {
	return studentRepo{s}
}

func (s *Store) Recruiters() repository.RecruiterRepository {
	return recruiterRepo{s}
}

func (s *Store) Jobs() repository.JobRepository {
	return jobRepo{s}
}

func (s *Store) Applications() repository.ApplicationRepository {
	return applicationRepo{s}
}

func (s *Store) Stats() repository.StatsRepository {
	return statsRepo{s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(ctx, s)
	}
	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.RLock()
	snapshot := s.st.d.clone()
	s.st.mu.RUnlock()

	tx := &Store{st: s.st, inTx: true, now: s.now}
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				s.restore(snapshot)
				panic(p)
			}
		}()
		return fn(ctx, tx)
	}()
	if err != nil {
		s.restore(snapshot)
	}
	return err
}

func (s *Store) restore(snapshot *data) {
	s.st.mu.Lock()
	s.st.d = snapshot
	s.st.mu.Unlock()
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.st.txMu.Lock()
		defer s.st.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(s.st.d)
}

func (s *Store) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return fn(s.st.d)
}

func (s *Store) stamp(id *string, created, updated *time.Time) {
	now := s.now().UTC()
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// newestFirst orders ids by created_at descending, insertion order breaking ties.
func newestFirst(d *data, ids []string, created func(id string) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := created(ids[i]), created(ids[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return d.seq[ids[i]] > d.seq[ids[j]]
	})
}

func paginate(ids []string, p entity.PageRequest) []string {
	start := p.Offset()
	if start >= len(ids) {
		return nil
	}
	end := start + p.Limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

func idSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

var _ repository.Store = (*Store)(nil)
