package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"Kyusei-App/internal/config"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/service"
	"Kyusei-App/internal/handler"
	"Kyusei-App/internal/infrastructure/database"
	"Kyusei-App/internal/infrastructure/firestore"
	"Kyusei-App/internal/repository"
)

// app 設定から組み立てた依存一式
type app struct {
	repos    *repository.Repositories
	health   handler.HealthChecker
	closers  []func() error
	calendar service.StarCalendar
	grid     service.GridOptions
	jobTTL   time.Duration
}

// newApp 保存先・暦・グリッドの既定値を設定から組み立てる
func newApp(ctx context.Context, c *config.Config) (*app, error) {
	calendar, err := newCalendar(c.Kyusei)
	if err != nil {
		return nil, err
	}
	a := &app{
		calendar: calendar,
		grid:     gridOptions(c.Grid),
		jobTTL:   time.Duration(c.Overlay.JobTTLMinutes) * time.Minute,
	}

	switch c.Store.Driver {
	case "memory":
		a.repos = repository.NewMemoryRepositories()
		zap.L().Info("🗃️ メモリストアを使用")
	default:
		client, err := database.NewSQLClient(ctx, c.Store.Driver, c.Store.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		if err := client.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.repos = repository.NewSQLRepositories(client)
		a.health = client
	}

	if c.Firestore.ProjectID != "" {
		fc, err := firestore.NewFirestoreClient(ctx, c.Firestore.ProjectID, c.Firestore.CredentialsFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, fc.Close)
		a.repos.KyuseiAnalysis = repository.NewFirestoreKyuseiAnalysisRepository(fc.GetClient())
		zap.L().Info("🔥 九星気学の履歴を Firestore に保存", zap.String("project_id", c.Firestore.ProjectID))
	}
	return a, nil
}

// Close 開いた接続を逆順に閉じる
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.L().Warn("⚠️ クローズに失敗", zap.Error(err))
		}
	}
	a.closers = nil
}

func gridOptions(g config.GridConfig) service.GridOptions {
	return service.GridOptions{
		RadiusKm:   g.RadiusKm,
		CellSizeKm: g.CellSizeKm,
		Workers:    g.Workers,
		Grouping:   service.GroupingPolicy(g.Grouping),
		MaxCells:   g.MaxCells,
	}
}

// parseBirthDate YYYY-MM-DD 形式
func parseBirthDate(s string) (model.BirthDate, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return model.BirthDate{}, eris.Wrapf(model.ErrInvalidDate, "YYYY-MM-DD 形式で指定してください: %q", s)
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return model.BirthDate{}, eris.Wrapf(model.ErrInvalidDate, "数値ではありません: %q", s)
	}
	d := model.BirthDate{Year: nums[0], Month: nums[1], Day: nums[2]}
	if err := d.Validate(); err != nil {
		return model.BirthDate{}, err
	}
	return d, nil
}

// parseYearMonth YYYY-MM 形式
func parseYearMonth(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, eris.Wrapf(model.ErrInvalidDate, "YYYY-MM 形式で指定してください: %q", s)
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return 0, 0, eris.Wrapf(model.ErrInvalidDate, "数値ではありません: %q", s)
	}
	if err := model.ValidateYearMonth(nums[0], nums[1]); err != nil {
		return 0, 0, err
	}
	return nums[0], nums[1], nil
}

func atoiAll(parts []string) ([]int, error) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

// newCalendar 設定の立春日で暦を作る
func newCalendar(k config.KyuseiConfig) (service.StarCalendar, error) {
	return service.NewStarCalendar(service.MonthDay{Month: k.SpringStartMonth, Day: k.SpringStartDay})
}
