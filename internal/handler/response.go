package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Kyusei-App/internal/domain/model"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// respondError ドメインのエラーをステータスコードに変換して返す
func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   verr.Field,
			"message": verr.Message,
		})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidPosition),
		errors.Is(err, model.ErrInvalidDate),
		errors.Is(err, model.ErrInvalidOptions),
		errors.Is(err, model.ErrStarOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	default:
		zap.L().Error("❌ リクエスト処理に失敗",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

// bindJSON ボディを読めなければ 400 を返して false
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return false
	}
	return true
}

// paramID パスパラメータの数値ID
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, &ValidationError{Field: name, Message: "正の整数で指定してください"})
		return 0, false
	}
	return id, true
}

// queryFloat 必須のクエリパラメータを数値として読む
func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		respondError(c, &ValidationError{Field: name, Message: "必須パラメータです"})
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(c, &ValidationError{Field: name, Message: "数値で指定してください"})
		return 0, false
	}
	return v, true
}

// queryBool 省略時は def
func queryBool(c *gin.Context, name string, def bool) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, &ValidationError{Field: name, Message: "true または false で指定してください"})
		return false, false
	}
	return v, true
}

// queryPosition lat / lng のクエリを座標として読む
func queryPosition(c *gin.Context) (model.Position, bool) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return model.Position{}, false
	}
	lng, ok := queryFloat(c, "lng")
	if !ok {
		return model.Position{}, false
	}
	return model.Position{Lat: lat, Lng: lng}, true
}
