package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/maternalab/gravida/internal/domain"
)

var errStoreDown = errors.New("store down")

type fakeMemoryStore struct {
	memories []domain.Memory
	failing  bool

	inserted []domain.Memory
	touched  []uuid.UUID
}

func (s *fakeMemoryStore) Insert(ctx context.Context, m *domain.Memory) error {
	if s.failing {
		return errStoreDown
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.LastAccessedAt.IsZero() {
		m.LastAccessedAt = m.CreatedAt
	}
	s.memories = append(s.memories, *m)
	s.inserted = append(s.inserted, *m)
	return nil
}

func (s *fakeMemoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Memory, error) {
	if s.failing {
		return nil, errStoreDown
	}
	out := s.forUser(userID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeMemoryStore) ListCandidates(ctx context.Context, userID string) ([]domain.Memory, error) {
	if s.failing {
		return nil, errStoreDown
	}
	out := s.forUser(userID)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastAccessedAt.Equal(out[j].LastAccessedAt) {
			return out[i].LastAccessedAt.After(out[j].LastAccessedAt)
		}
		return out[i].Importance > out[j].Importance
	})
	return out, nil
}

func (s *fakeMemoryStore) ListByKind(ctx context.Context, userID string, kind domain.MemoryKind, limit int) ([]domain.Memory, error) {
	if s.failing {
		return nil, errStoreDown
	}
	var out []domain.Memory
	for _, m := range s.forUser(userID) {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeMemoryStore) Touch(ctx context.Context, id uuid.UUID) error {
	if s.failing {
		return errStoreDown
	}
	s.touched = append(s.touched, id)
	for i := range s.memories {
		if s.memories[i].ID == id {
			s.memories[i].LastAccessedAt = time.Now().UTC()
		}
	}
	return nil
}

func (s *fakeMemoryStore) forUser(userID string) []domain.Memory {
	var out []domain.Memory
	for _, m := range s.memories {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

type fakeProfileStore struct {
	profiles map[string]*domain.Profile
	failing  bool
	updates  []domain.ProfileUpdate
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*domain.Profile{}}
}

func (s *fakeProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	if s.failing {
		return errStoreDown
	}
	cp := *p
	s.profiles[p.UserID] = &cp
	return nil
}

func (s *fakeProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if s.failing {
		return nil, errStoreDown
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProfileStore) Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	if s.failing {
		return nil, errStoreDown
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, errStoreDown
	}
	s.updates = append(s.updates, u)
	if u.PregnancyWeek != nil {
		p.PregnancyWeek = *u.PregnancyWeek
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	cp := *p
	return &cp, nil
}

type fakeDocumentStore struct {
	docs    []domain.MedicalDocument
	failing bool
}

func (s *fakeDocumentStore) Add(ctx context.Context, d *domain.MedicalDocument) error {
	if s.failing {
		return errStoreDown
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.docs = append(s.docs, *d)
	return nil
}

func (s *fakeDocumentStore) List(ctx context.Context, userID string) ([]domain.MedicalDocument, error) {
	if s.failing {
		return nil, errStoreDown
	}
	var out []domain.MedicalDocument
	for _, d := range s.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeEmbedder maps texts to fixed vectors. Unmapped texts get the default
// vector; a failing embedder errors on every call.
type fakeEmbedder struct {
	vectors      map[string][]float32
	defaultVec   []float32
	failing      bool
	embedCalls   []string
	memoryEmbeds []uuid.UUID
}

func newFakeEmbedder() *fakeEmbedder {
	def := make([]float32, domain.EmbeddingDim)
	def[0] = 1
	return &fakeEmbedder{vectors: map[string][]float32{}, defaultVec: def}
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.embedCalls = append(e.embedCalls, text)
	if e.failing {
		return nil, errors.New("embedding provider down")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.defaultVec, nil
}

func (e *fakeEmbedder) EmbedMemory(ctx context.Context, id uuid.UUID, text string) ([]float32, error) {
	e.memoryEmbeds = append(e.memoryEmbeds, id)
	return e.Embed(ctx, text)
}

// vec384 builds a dimension-correct vector whose leading components are the
// given values.
func vec384(leading ...float32) []float32 {
	v := make([]float32, domain.EmbeddingDim)
	copy(v, leading)
	return v
}
