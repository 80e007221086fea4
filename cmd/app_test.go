package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kyusei-App/internal/config"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/service"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Log:     config.LogConfig{Level: "info", Format: "json"},
		Store:   config.StoreConfig{Driver: "memory"},
		Grid:    config.GridConfig{RadiusKm: 120, CellSizeKm: 1, Grouping: "merge", MaxCells: 2000000},
		Kyusei:  config.KyuseiConfig{SpringStartMonth: 2, SpringStartDay: 4},
		Overlay: config.OverlayConfig{JobTTLMinutes: 30},
	}
}

func TestParseBirthDate(t *testing.T) {
	d, err := parseBirthDate("1990-05-20")
	require.NoError(t, err)
	assert.Equal(t, model.BirthDate{Year: 1990, Month: 5, Day: 20}, d)

	for _, in := range []string{"", "1990-05", "1990-5-x", "2023-02-29"} {
		_, err := parseBirthDate(in)
		assert.True(t, errors.Is(err, model.ErrInvalidDate), in)
	}
}

func TestParseYearMonth(t *testing.T) {
	y, m, err := parseYearMonth("2024-06")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 6, m)

	for _, in := range []string{"2024", "2024-13", "abcd-01", "2024-06-01"} {
		_, _, err := parseYearMonth(in)
		assert.True(t, errors.Is(err, model.ErrInvalidDate), in)
	}
}

func TestGridOptionsFromConfig(t *testing.T) {
	opts := gridOptions(config.GridConfig{RadiusKm: 50, CellSizeKm: 2, Workers: 4, Grouping: "merge", MaxCells: 5000})
	assert.Equal(t, service.GridOptions{RadiusKm: 50, CellSizeKm: 2, Workers: 4, Grouping: service.GroupingMerge, MaxCells: 5000}, opts)
	assert.NoError(t, opts.Validate())
}

func TestNewApp_Memory(t *testing.T) {
	a, err := newApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.health)
	assert.Equal(t, 30*time.Minute, a.jobTTL)
	assert.Equal(t, service.MonthDay{Month: 2, Day: 4}, a.calendar.SpringStart)
	require.NotNil(t, a.repos)
	assert.NotNil(t, a.repos.KyuseiAnalysis)
}

func TestNewApp_SQLite(t *testing.T) {
	c := testConfig()
	c.Store = config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "kyusei.db")}

	a, err := newApp(context.Background(), c)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.health)
	assert.NoError(t, a.health.HealthCheck(context.Background()))

	loc := &model.Location{Name: "自宅", Address: "東京都港区", Latitude: 35.6812, Longitude: 139.7287}
	require.NoError(t, a.repos.Locations.Create(context.Background(), loc))
	assert.NotZero(t, loc.ID)
}

func TestNewApp_InvalidSpringStart(t *testing.T) {
	c := testConfig()
	c.Kyusei.SpringStartDay = 31
	_, err := newApp(context.Background(), c)
	assert.True(t, errors.Is(err, model.ErrInvalidDate))
}
