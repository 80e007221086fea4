package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/usecase"
)

// KyuseiHandler 九星気学APIのハンドラー
type KyuseiHandler struct {
	kyuseiUseCase usecase.KyuseiUseCase
}

// NewKyuseiHandler 新しいKyuseiHandlerインスタンスを作成
func NewKyuseiHandler(kyuseiUseCase usecase.KyuseiUseCase) *KyuseiHandler {
	return &KyuseiHandler{
		kyuseiUseCase: kyuseiUseCase,
	}
}

// ListStars GET /api/kyusei/stars - 九星の一覧
func (h *KyuseiHandler) ListStars(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stars": h.kyuseiUseCase.ListStars()})
}

// PostAnalysis POST /api/kyusei/analysis - 本命星と吉方位の分析
func (h *KyuseiHandler) PostAnalysis(c *gin.Context) {
	var req model.KyuseiAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validateAnalysisRequest(&req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.kyuseiUseCase.Analyze(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if resp.ID != "" {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// validateAnalysisRequest 必須項目のチェック。日付の実在チェックはユースケースで行う
func (h *KyuseiHandler) validateAnalysisRequest(req *model.KyuseiAnalysisRequest) error {
	if req.BirthDate.Year == 0 {
		return &ValidationError{Field: "birthDate", Message: "生年月日は必須です"}
	}
	if req.MoveYear == 0 {
		return &ValidationError{Field: "moveYear", Message: "移転年は必須です"}
	}
	if req.MoveMonth < 1 || req.MoveMonth > 12 {
		return &ValidationError{Field: "moveMonth", Message: "移転月は1から12の範囲で指定してください"}
	}
	return nil
}

// ListAnalyses GET /api/kyusei/analyses?session_id= - セッションの分析履歴
func (h *KyuseiHandler) ListAnalyses(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, &ValidationError{Field: "session_id", Message: "必須パラメータです"})
		return
	}
	analyses, err := h.kyuseiUseCase.ListAnalyses(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// GetAnalysisByLocation GET /api/kyusei/analysis/:locationId - 地点の最新の分析
func (h *KyuseiHandler) GetAnalysisByLocation(c *gin.Context) {
	locationID, ok := paramID(c, "locationId")
	if !ok {
		return
	}
	analysis, err := h.kyuseiUseCase.GetAnalysisByLocation(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetProfile GET /api/profiles/:sessionId - セッションのプロフィール
func (h *KyuseiHandler) GetProfile(c *gin.Context) {
	profile, err := h.kyuseiUseCase.GetProfile(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
