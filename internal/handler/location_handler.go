package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/usecase"
)

// DefaultDirectionRadiusMeters 方位線の既定の長さ
const DefaultDirectionRadiusMeters = 5000.0

// LocationHandler 地点・マーカー・風水に関するHTTPハンドラー
type LocationHandler struct {
	locationUseCase usecase.LocationUseCase
}

// NewLocationHandler LocationHandlerの新しいインスタンスを作成
func NewLocationHandler(locationUseCase usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{
		locationUseCase: locationUseCase,
	}
}

type geocodeRequest struct {
	Address string `json:"address"`
}

// Geocode POST /api/geocode - 住所を座標に変換
func (h *LocationHandler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		respondError(c, &ValidationError{Field: "address", Message: "住所は必須です"})
		return
	}

	result, err := h.locationUseCase.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLocation GET /api/locations/:id - 地点の取得
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, err := h.locationUseCase.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// FindLocation GET /api/locations?lat=&lng= - 座標が近い既存の地点を取得
func (h *LocationHandler) FindLocation(c *gin.Context) {
	pos, ok := queryPosition(c)
	if !ok {
		return
	}
	loc, err := h.locationUseCase.FindLocation(c.Request.Context(), pos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// CreateLocation POST /api/locations - 地点の作成
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var input model.LocationInput
	if !bindJSON(c, &input) {
		return
	}
	loc, err := h.locationUseCase.CreateLocation(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// UpdateLocation PUT /api/locations/:id - 地点の部分更新
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input model.LocationInput
	if !bindJSON(c, &input) {
		return
	}
	loc, err := h.locationUseCase.UpdateLocation(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// ListMarkers GET /api/markers?locationId= - マーカー一覧
func (h *LocationHandler) ListMarkers(c *gin.Context) {
	var locationID *int64
	if raw := c.Query("locationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, &ValidationError{Field: "locationId", Message: "整数で指定してください"})
			return
		}
		locationID = &id
	}
	markers, err := h.locationUseCase.ListMarkers(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, markers)
}

// CreateMarker POST /api/markers - マーカーの作成
func (h *LocationHandler) CreateMarker(c *gin.Context) {
	var input model.MarkerInput
	if !bindJSON(c, &input) {
		return
	}
	marker, err := h.locationUseCase.CreateMarker(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, marker)
}

// UpdateMarker PUT /api/markers/:id - マーカーの部分更新
func (h *LocationHandler) UpdateMarker(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input model.MarkerInput
	if !bindJSON(c, &input) {
		return
	}
	marker, err := h.locationUseCase.UpdateMarker(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, marker)
}

// DeleteMarker DELETE /api/markers/:id - マーカーの削除
func (h *LocationHandler) DeleteMarker(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.locationUseCase.DeleteMarker(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetFengShuiAnalysis GET /api/feng-shui-analysis/:locationId - 地点の最新の風水分析
func (h *LocationHandler) GetFengShuiAnalysis(c *gin.Context) {
	locationID, ok := paramID(c, "locationId")
	if !ok {
		return
	}
	analysis, err := h.locationUseCase.GetFengShuiAnalysis(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// CreateFengShuiAnalysis POST /api/feng-shui-analysis - 風水分析の作成
func (h *LocationHandler) CreateFengShuiAnalysis(c *gin.Context) {
	var req model.FengShuiAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.LocationID <= 0 {
		respondError(c, &ValidationError{Field: "locationId", Message: "地点IDは必須です"})
		return
	}
	analysis, err := h.locationUseCase.CreateFengShuiAnalysis(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

// GetElevation GET /api/elevation?lat=&lng= - 標高（モック）
func (h *LocationHandler) GetElevation(c *gin.Context) {
	pos, ok := queryPosition(c)
	if !ok {
		return
	}
	elevation, err := h.locationUseCase.Elevation(pos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"elevation": elevation})
}

// GetFengShuiDirection GET /api/feng-shui/direction?bearing= - 方位角の風水判定
func (h *LocationHandler) GetFengShuiDirection(c *gin.Context) {
	bearing, ok := queryFloat(c, "bearing")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.locationUseCase.FengShuiDirection(bearing))
}

// GetDirectionLines GET /api/directions - 8方位線を GeoJSON で返す
func (h *LocationHandler) GetDirectionLines(c *gin.Context) {
	center, ok := queryPosition(c)
	if !ok {
		return
	}
	radius := DefaultDirectionRadiusMeters
	if c.Query("radius") != "" {
		if radius, ok = queryFloat(c, "radius"); !ok {
			return
		}
	}
	showPrimary, ok := queryBool(c, "primary", true)
	if !ok {
		return
	}
	showSecondary, ok := queryBool(c, "secondary", true)
	if !ok {
		return
	}

	fc, err := h.locationUseCase.DirectionLines(center, radius, showPrimary, showSecondary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}
