package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
)

// MemoryStore プロセス内のマップに保存するストア。再起動で消える
type MemoryStore struct {
	mu sync.RWMutex

	locations        map[int64]model.Location
	markers          map[int64]model.Marker
	fengShuiAnalyses map[int64]model.FengShuiAnalysis
	kyuseiAnalyses   map[string]model.KyuseiAnalysis
	profiles         map[string]model.UserProfile

	nextLocationID int64
	nextMarkerID   int64
	nextFengShuiID int64
	nextProfileID  int64

	now func() time.Time
}

// NewMemoryStore 空のメモリストアを作成
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locations:        make(map[int64]model.Location),
		markers:          make(map[int64]model.Marker),
		fengShuiAnalyses: make(map[int64]model.FengShuiAnalysis),
		kyuseiAnalyses:   make(map[string]model.KyuseiAnalysis),
		profiles:         make(map[string]model.UserProfile),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

type memoryLocationsRepository struct{ s *MemoryStore }

// NewMemoryLocationsRepository メモリ版の地点リポジトリ
func NewMemoryLocationsRepository(s *MemoryStore) repository.LocationsRepository {
	return &memoryLocationsRepository{s: s}
}

func (r *memoryLocationsRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "location %d", id)
	}
	return &loc, nil
}

func (r *memoryLocationsRepository) GetByCoordinates(ctx context.Context, lat, lng, tolerance float64) (*model.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]int64, 0, len(r.s.locations))
	for id := range r.s.locations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		loc := r.s.locations[id]
		if math.Abs(loc.Latitude-lat) <= tolerance && math.Abs(loc.Longitude-lng) <= tolerance {
			return &loc, nil
		}
	}
	return nil, eris.Wrapf(model.ErrNotFound, "location near (%v, %v)", lat, lng)
}

func (r *memoryLocationsRepository) Create(ctx context.Context, location *model.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextLocationID++
	location.ID = r.s.nextLocationID
	location.CreatedAt = r.s.now()
	r.s.locations[location.ID] = *location
	return nil
}

func (r *memoryLocationsRepository) Update(ctx context.Context, id int64, input *model.LocationInput) (*model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "location %d", id)
	}
	applyLocationInput(&loc, input)
	r.s.locations[id] = loc
	return &loc, nil
}

type memoryMarkersRepository struct{ s *MemoryStore }

// NewMemoryMarkersRepository メモリ版のマーカーリポジトリ
func NewMemoryMarkersRepository(s *MemoryStore) repository.MarkersRepository {
	return &memoryMarkersRepository{s: s}
}

func (r *memoryMarkersRepository) List(ctx context.Context, locationID *int64) ([]model.Marker, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	markers := make([]model.Marker, 0, len(r.s.markers))
	for _, m := range r.s.markers {
		if locationID != nil && (m.LocationID == nil || *m.LocationID != *locationID) {
			continue
		}
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].ID < markers[j].ID })
	return markers, nil
}

func (r *memoryMarkersRepository) Create(ctx context.Context, marker *model.Marker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMarkerID++
	marker.ID = r.s.nextMarkerID
	marker.CreatedAt = r.s.now()
	r.s.markers[marker.ID] = *marker
	return nil
}

func (r *memoryMarkersRepository) Update(ctx context.Context, id int64, input *model.MarkerInput) (*model.Marker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.markers[id]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "marker %d", id)
	}
	applyMarkerInput(&m, input)
	r.s.markers[id] = m
	return &m, nil
}

func (r *memoryMarkersRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.markers[id]; !ok {
		return eris.Wrapf(model.ErrNotFound, "marker %d", id)
	}
	delete(r.s.markers, id)
	return nil
}

type memoryFengShuiAnalysisRepository struct{ s *MemoryStore }

// NewMemoryFengShuiAnalysisRepository メモリ版の風水分析リポジトリ
func NewMemoryFengShuiAnalysisRepository(s *MemoryStore) repository.FengShuiAnalysisRepository {
	return &memoryFengShuiAnalysisRepository{s: s}
}

func (r *memoryFengShuiAnalysisRepository) GetByLocationID(ctx context.Context, locationID int64) (*model.FengShuiAnalysis, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *model.FengShuiAnalysis
	for _, a := range r.s.fengShuiAnalyses {
		if a.LocationID != locationID {
			continue
		}
		if found == nil || a.ID > found.ID {
			found = &a
		}
	}
	if found == nil {
		return nil, eris.Wrapf(model.ErrNotFound, "feng shui analysis for location %d", locationID)
	}
	return found, nil
}

func (r *memoryFengShuiAnalysisRepository) Create(ctx context.Context, analysis *model.FengShuiAnalysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextFengShuiID++
	analysis.ID = r.s.nextFengShuiID
	analysis.AnalysisDate = r.s.now()
	r.s.fengShuiAnalyses[analysis.ID] = *analysis
	return nil
}

type memoryKyuseiAnalysisRepository struct{ s *MemoryStore }

// NewMemoryKyuseiAnalysisRepository メモリ版の九星気学分析リポジトリ
func NewMemoryKyuseiAnalysisRepository(s *MemoryStore) repository.KyuseiAnalysisRepository {
	return &memoryKyuseiAnalysisRepository{s: s}
}

func (r *memoryKyuseiAnalysisRepository) Create(ctx context.Context, analysis *model.KyuseiAnalysis) error {
	if analysis.ID == "" {
		return eris.New("kyusei analysis: id is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = r.s.now()
	}
	r.s.kyuseiAnalyses[analysis.ID] = *analysis
	return nil
}

// sorted 新しい順。同時刻は ID の順
func (r *memoryKyuseiAnalysisRepository) sorted(keep func(model.KyuseiAnalysis) bool) []model.KyuseiAnalysis {
	list := make([]model.KyuseiAnalysis, 0)
	for _, a := range r.s.kyuseiAnalyses {
		if keep(a) {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (r *memoryKyuseiAnalysisRepository) GetByLocationID(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.sorted(func(a model.KyuseiAnalysis) bool {
		return a.LocationID != nil && *a.LocationID == locationID
	})
	if len(list) == 0 {
		return nil, eris.Wrapf(model.ErrNotFound, "kyusei analysis for location %d", locationID)
	}
	return &list[0], nil
}

func (r *memoryKyuseiAnalysisRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.KyuseiAnalysis, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.sorted(func(a model.KyuseiAnalysis) bool { return a.SessionID == sessionID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type memoryUserProfilesRepository struct{ s *MemoryStore }

// NewMemoryUserProfilesRepository メモリ版のプロフィールリポジトリ
func NewMemoryUserProfilesRepository(s *MemoryStore) repository.UserProfilesRepository {
	return &memoryUserProfilesRepository{s: s}
}

func (r *memoryUserProfilesRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[sessionID]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "user profile %s", sessionID)
	}
	return &p, nil
}

func (r *memoryUserProfilesRepository) Save(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.profiles[profile.SessionID]
	if !ok {
		r.s.nextProfileID++
		current = model.UserProfile{
			ID:        r.s.nextProfileID,
			SessionID: profile.SessionID,
			CreatedAt: r.s.now(),
		}
	}
	mergeUserProfile(&current, profile)
	r.s.profiles[profile.SessionID] = current
	return &current, nil
}
