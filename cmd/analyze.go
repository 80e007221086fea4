package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/repository"
	"Kyusei-App/internal/usecase"
)

var (
	analyzeBirth string
	analyzeMove  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "本命星と吉方位を計算して JSON で出力",
	RunE: func(cmd *cobra.Command, args []string) error {
		birth, err := parseBirthDate(analyzeBirth)
		if err != nil {
			return err
		}
		year, month, err := parseYearMonth(analyzeMove)
		if err != nil {
			return err
		}
		calendar, err := newCalendar(cfg.Kyusei)
		if err != nil {
			return err
		}

		// 保存しないのでメモリストアで十分
		repos := repository.NewMemoryRepositories()
		uc := usecase.NewKyuseiUseCase(calendar, repos.KyuseiAnalysis, repos.UserProfiles)
		resp, err := uc.Analyze(cmd.Context(), &model.KyuseiAnalysisRequest{
			BirthDate: birth,
			MoveYear:  year,
			MoveMonth: month,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(resp), "encode analysis")
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBirth, "birth", "", "birth date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeMove, "move", "", "move year and month (YYYY-MM)")
	_ = analyzeCmd.MarkFlagRequired("birth")
	_ = analyzeCmd.MarkFlagRequired("move")
	rootCmd.AddCommand(analyzeCmd)
}
