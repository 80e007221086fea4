package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/usecase"
)

// OverlayHandler 吉凶オーバーレイの非同期ジョブAPI
type OverlayHandler struct {
	overlayUseCase usecase.OverlayUseCase
}

// NewOverlayHandler 新しいOverlayHandlerインスタンスを作成
func NewOverlayHandler(overlayUseCase usecase.OverlayUseCase) *OverlayHandler {
	return &OverlayHandler{
		overlayUseCase: overlayUseCase,
	}
}

// PostOverlay POST /api/overlays - 構築を開始して 202 とジョブIDを返す
func (h *OverlayHandler) PostOverlay(c *gin.Context) {
	var req usecase.OverlayRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BirthDate.Year == 0 {
		respondError(c, &ValidationError{Field: "birthDate", Message: "生年月日は必須です"})
		return
	}

	jobID, err := h.overlayUseCase.Start(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/overlays/"+jobID)
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// GetOverlay GET /api/overlays/:id[?format=geojson] - ジョブの状態。format=geojson は完了後のみ
func (h *OverlayHandler) GetOverlay(c *gin.Context) {
	job, err := h.overlayUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.Query("format") {
	case "":
		c.JSON(http.StatusOK, job)
	case "geojson":
		if job.State != model.BuildStateDone {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "not_ready",
				"message": "overlay job is " + string(job.State),
				"state":   job.State,
			})
			return
		}
		c.JSON(http.StatusOK, helper.OverlayFeatureCollection(job.Result))
	default:
		respondError(c, &ValidationError{Field: "format", Message: "format は geojson のみ指定できます"})
	}
}

// DeleteOverlay DELETE /api/overlays/:id - 実行中のジョブを止める
func (h *OverlayHandler) DeleteOverlay(c *gin.Context) {
	if err := h.overlayUseCase.Cancel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
