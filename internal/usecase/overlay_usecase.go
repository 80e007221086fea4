package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/service"
)

// OverlayRequest オーバーレイ構築のリクエスト
type OverlayRequest struct {
	SessionID string               `json:"sessionId"`
	Home      model.Position       `json:"home"`
	BirthDate model.BirthDate      `json:"birthDate"`
	MoveYear  int                  `json:"moveYear"`
	MoveMonth int                  `json:"moveMonth"`
	Options   *service.GridOptions `json:"options,omitempty"`
}

// BuildFunc オーバーレイの構築処理
type BuildFunc func(ctx context.Context, home model.Position, goodSectors []model.Sector, opts service.GridOptions, onProgress model.ProgressFunc) (*model.OverlayData, error)

// OverlayJob ジョブの状態。Result は Done のときだけ入る
type OverlayJob struct {
	ID        string             `json:"jobId"`
	SessionID string             `json:"sessionId,omitempty"`
	State     model.BuildState   `json:"state"`
	Progress  float64            `json:"progress"`
	Stats     *model.GridStats   `json:"stats,omitempty"`
	Error     string             `json:"error,omitempty"`
	Result    *model.OverlayData `json:"result,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type OverlayUseCase interface {
	// Start は構築をバックグラウンドで開始してジョブIDを返す。
	// 同じセッションの実行中ジョブはキャンセルされ、結果は破棄される
	Start(ctx context.Context, req *OverlayRequest) (string, error)

	// Get はジョブの現在の状態を返す
	Get(ctx context.Context, jobID string) (*OverlayJob, error)

	// Wait はジョブの終了を待って最終状態を返す
	Wait(ctx context.Context, jobID string) (*OverlayJob, error)

	// Cancel は実行中のジョブを止める
	Cancel(jobID string) error

	// Close は全ジョブを止める
	Close()
}

type overlayJob struct {
	view       OverlayJob
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

type overlayUseCaseImpl struct {
	calendar   service.StarCalendar
	classifier *service.SectorClassifier
	defaults   service.GridOptions
	ttl        time.Duration
	now        func() time.Time
	build      BuildFunc

	mu          sync.Mutex
	jobs        map[string]*overlayJob
	generations map[string]uint64 // セッションごとの最新世代
	latest      map[string]string // セッションごとの最新ジョブID
	wg          sync.WaitGroup
}

// NewOverlayUseCase 新しいOverlayUseCaseインスタンスを作成
func NewOverlayUseCase(calendar service.StarCalendar, defaults service.GridOptions, ttl time.Duration) OverlayUseCase {
	return &overlayUseCaseImpl{
		calendar:    calendar,
		classifier:  service.NewSectorClassifier(calendar),
		defaults:    defaults,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
		build:       service.BuildLuckOverlay,
		jobs:        make(map[string]*overlayJob),
		generations: make(map[string]uint64),
		latest:      make(map[string]string),
	}
}

func (u *overlayUseCaseImpl) options(req *OverlayRequest) service.GridOptions {
	opts := u.defaults
	if req.Options == nil {
		return opts
	}
	if req.Options.RadiusKm != 0 {
		opts.RadiusKm = req.Options.RadiusKm
	}
	if req.Options.CellSizeKm != 0 {
		opts.CellSizeKm = req.Options.CellSizeKm
	}
	if req.Options.Grouping != "" {
		opts.Grouping = req.Options.Grouping
	}
	return opts
}

func (u *overlayUseCaseImpl) Start(ctx context.Context, req *OverlayRequest) (string, error) {
	if err := req.Home.Validate(); err != nil {
		return "", err
	}
	if err := req.BirthDate.Validate(); err != nil {
		return "", eris.Wrap(err, "生年月日")
	}
	if err := model.ValidateYearMonth(req.MoveYear, req.MoveMonth); err != nil {
		return "", eris.Wrap(err, "移転年月")
	}
	opts := u.options(req)
	if err := opts.Validate(); err != nil {
		return "", err
	}
	homeStar, err := u.calendar.HomeStar(req.BirthDate.Year, req.BirthDate.Month, req.BirthDate.Day)
	if err != nil {
		return "", err
	}
	sectors := u.classifier.GoodSectors(homeStar, req.MoveYear, req.MoveMonth)

	buildCtx, cancel := context.WithCancel(context.Background())
	now := u.now()
	job := &overlayJob{
		view: OverlayJob{
			ID:        uuid.NewString(),
			SessionID: req.SessionID,
			State:     model.BuildStateIdle,
			CreatedAt: now,
			UpdatedAt: now,
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	u.mu.Lock()
	u.purgeLocked(now)
	if req.SessionID != "" {
		u.generations[req.SessionID]++
		job.generation = u.generations[req.SessionID]
		if prevID, ok := u.latest[req.SessionID]; ok {
			if prev, ok := u.jobs[prevID]; ok {
				prev.cancel()
			}
		}
		u.latest[req.SessionID] = job.view.ID
	}
	u.jobs[job.view.ID] = job
	u.mu.Unlock()

	log := zap.L().With(zap.String("job_id", job.view.ID), zap.String("session_id", req.SessionID))
	log.Info("🗺️ オーバーレイ構築を開始", zap.Int("home_star", homeStar), zap.Int("good_sectors", len(sectors)))

	build := u.build
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer close(job.done)
		defer cancel()

		overlay, err := build(buildCtx, req.Home, sectors, opts, func(p model.Progress) {
			u.mu.Lock()
			defer u.mu.Unlock()
			// Done は結果と同時に finish で反映する
			if u.supersededLocked(job) || p.State == model.BuildStateDone {
				return
			}
			job.view.State = p.State
			job.view.Progress = p.Fraction
			job.view.UpdatedAt = u.now()
		})
		u.finish(job, overlay, err, log)
	}()

	return job.view.ID, nil
}

// supersededLocked 同じセッションでより新しいジョブが開始されたか
func (u *overlayUseCaseImpl) supersededLocked(job *overlayJob) bool {
	if job.view.SessionID == "" {
		return false
	}
	return u.generations[job.view.SessionID] != job.generation
}

func (u *overlayUseCaseImpl) finish(job *overlayJob, overlay *model.OverlayData, err error, log *zap.Logger) {
	u.mu.Lock()
	defer u.mu.Unlock()
	job.view.UpdatedAt = u.now()

	switch {
	case u.supersededLocked(job):
		job.view.State = model.BuildStateCanceled
		job.view.Error = model.ErrSuperseded.Error()
		log.Info("⏭️ 新しいリクエストにより破棄")
	case errors.Is(err, model.ErrBuildCanceled):
		job.view.State = model.BuildStateCanceled
		job.view.Error = err.Error()
		log.Info("🛑 オーバーレイ構築をキャンセル")
	case err != nil:
		job.view.State = model.BuildStateFailed
		job.view.Error = err.Error()
		log.Error("❌ オーバーレイ構築に失敗", zap.Error(err))
	default:
		stats := service.GetGridStats(overlay)
		job.view.State = model.BuildStateDone
		job.view.Progress = 1
		job.view.Stats = &stats
		job.view.Result = overlay
	}
}

// purgeLocked TTL を過ぎた終了済みジョブを削除する
func (u *overlayUseCaseImpl) purgeLocked(now time.Time) {
	if u.ttl <= 0 {
		return
	}
	for id, job := range u.jobs {
		select {
		case <-job.done:
		default:
			continue
		}
		if now.Sub(job.view.UpdatedAt) > u.ttl {
			delete(u.jobs, id)
			if u.latest[job.view.SessionID] == id {
				delete(u.latest, job.view.SessionID)
			}
		}
	}
}

// snapshot Result のスライスは構築後に変更されないので共有する
func (u *overlayUseCaseImpl) snapshot(jobID string) (*OverlayJob, chan struct{}, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.purgeLocked(u.now())
	job, ok := u.jobs[jobID]
	if !ok {
		return nil, nil, eris.Wrapf(model.ErrNotFound, "overlay job %s", jobID)
	}
	view := job.view
	return &view, job.done, nil
}

func (u *overlayUseCaseImpl) Get(ctx context.Context, jobID string) (*OverlayJob, error) {
	view, _, err := u.snapshot(jobID)
	return view, err
}

func (u *overlayUseCaseImpl) Wait(ctx context.Context, jobID string) (*OverlayJob, error) {
	_, done, err := u.snapshot(jobID)
	if err != nil {
		return nil, err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "overlay job wait")
	}
	view, _, err := u.snapshot(jobID)
	return view, err
}

func (u *overlayUseCaseImpl) Cancel(jobID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	job, ok := u.jobs[jobID]
	if !ok {
		return eris.Wrapf(model.ErrNotFound, "overlay job %s", jobID)
	}
	job.cancel()
	return nil
}

func (u *overlayUseCaseImpl) Close() {
	u.mu.Lock()
	for _, job := range u.jobs {
		job.cancel()
	}
	u.mu.Unlock()
	u.wg.Wait()
}
