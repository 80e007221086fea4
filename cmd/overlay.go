package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/service"
)

var (
	overlayLat      float64
	overlayLng      float64
	overlayBirth    string
	overlayMove     string
	overlayRadius   float64
	overlayCell     float64
	overlayGrouping string
	overlayGeoJSON  bool
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "自宅周辺の吉凶グリッドを構築して集計または GeoJSON を出力",
	RunE: func(cmd *cobra.Command, args []string) error {
		home := model.Position{Lat: overlayLat, Lng: overlayLng}
		if err := home.Validate(); err != nil {
			return err
		}
		birth, err := parseBirthDate(overlayBirth)
		if err != nil {
			return err
		}
		year, month, err := parseYearMonth(overlayMove)
		if err != nil {
			return err
		}
		calendar, err := newCalendar(cfg.Kyusei)
		if err != nil {
			return err
		}

		opts := gridOptions(cfg.Grid)
		if cmd.Flags().Changed("radius") {
			opts.RadiusKm = overlayRadius
		}
		if cmd.Flags().Changed("cell") {
			opts.CellSizeKm = overlayCell
		}
		if cmd.Flags().Changed("grouping") {
			opts.Grouping = service.GroupingPolicy(overlayGrouping)
		}

		homeStar, err := calendar.HomeStar(birth.Year, birth.Month, birth.Day)
		if err != nil {
			return err
		}
		sectors := service.NewSectorClassifier(calendar).GoodSectors(homeStar, year, month)

		start := time.Now()
		overlay, err := service.BuildLuckOverlay(cmd.Context(), home, sectors, opts, func(p model.Progress) {
			zap.L().Info("⏳ 構築中", zap.String("state", string(p.State)), zap.Float64("progress", p.Fraction))
		})
		if err != nil {
			return err
		}
		zap.L().Info("⏱️ 構築時間", zap.Duration("elapsed", time.Since(start)))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if overlayGeoJSON {
			return eris.Wrap(enc.Encode(helper.OverlayFeatureCollection(overlay)), "encode geojson")
		}
		return eris.Wrap(enc.Encode(service.GetGridStats(overlay)), "encode stats")
	},
}

func init() {
	f := overlayCmd.Flags()
	f.Float64Var(&overlayLat, "lat", 0, "home latitude")
	f.Float64Var(&overlayLng, "lng", 0, "home longitude")
	f.StringVar(&overlayBirth, "birth", "", "birth date (YYYY-MM-DD)")
	f.StringVar(&overlayMove, "move", "", "move year and month (YYYY-MM)")
	f.Float64Var(&overlayRadius, "radius", service.DefaultRadiusKm, "grid radius in km (default from config)")
	f.Float64Var(&overlayCell, "cell", service.DefaultCellSizeKm, "cell size in km (default from config)")
	f.StringVar(&overlayGrouping, "grouping", string(service.GroupingIdentity), "polygon grouping: identity or merge")
	f.BoolVar(&overlayGeoJSON, "geojson", false, "print GeoJSON FeatureCollection instead of stats")
	for _, name := range []string{"lat", "lng", "birth", "move"} {
		_ = overlayCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(overlayCmd)
}
