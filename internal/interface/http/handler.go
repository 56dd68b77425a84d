package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	"github.com/fasalmitra/crop-advisor/internal/domain/weather"
	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorSvc   advisor.Service
	marketSvc    market.Service
	weatherSvc   weather.Service
	predictorSvc predictor.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorSvc advisor.Service, marketSvc market.Service, weatherSvc weather.Service, predictorSvc predictor.Service, logger *slog.Logger) *Handler {
	return &Handler{
		advisorSvc:   advisorSvc,
		marketSvc:    marketSvc,
		weatherSvc:   weatherSvc,
		predictorSvc: predictorSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Recommend runs the full advisory pass for one farmer profile.
func (h *Handler) Recommend(c *gin.Context) {
	var profile advisor.FarmerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	advice, err := h.advisorSvc.Recommend(c.Request.Context(), profile)
	if err != nil {
		abortWithError(c, mapDomainError(err, "recommend_failed"))
		return
	}
	c.JSON(http.StatusOK, advice)
}

// FarmingTypes scores farming approaches against one farmer profile.
func (h *Handler) FarmingTypes(c *gin.Context) {
	var profile advisor.FarmerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	types, err := h.advisorSvc.FarmingTypes(c.Request.Context(), profile)
	if err != nil {
		abortWithError(c, mapDomainError(err, "farming_types_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"farmingTypes": types})
}

// ListCrops returns a summary of every crop in the dataset.
func (h *Handler) ListCrops(c *gin.Context) {
	crops, err := h.advisorSvc.Crops(c.Request.Context())
	if err != nil {
		abortWithError(c, mapDomainError(err, "crops_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"crops": crops})
}

// CropDetail returns aggregate stats for one crop by name.
func (h *Handler) CropDetail(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	detail, err := h.advisorSvc.Crop(c.Request.Context(), name)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "crop_not_found", errMessage(err), err))
			return
		}
		abortWithError(c, mapDomainError(err, "crops_failed"))
		return
	}
	c.JSON(http.StatusOK, detail)
}

// History lists recent recommendation passes, newest first.
func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.advisorSvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, mapDomainError(err, "history_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// MarketPrices quotes the requested commodities, all supported ones when
// the query is empty.
func (h *Handler) MarketPrices(c *gin.Context) {
	var commodities []string
	if raw := strings.TrimSpace(c.Query("commodities")); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				commodities = append(commodities, item)
			}
		}
	}
	if len(commodities) == 0 {
		commodities = market.SupportedCommodities()
	}

	quotes := h.marketSvc.Quotes(c.Request.Context(), commodities)
	c.JSON(http.StatusOK, gin.H{"prices": quotes})
}

// MarketCommodities lists every commodity with a support price on file.
func (h *Handler) MarketCommodities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commodities": market.SupportedCommodities()})
}

// CurrentWeather reports present conditions for a location.
func (h *Handler) CurrentWeather(c *gin.Context) {
	location := c.DefaultQuery("location", "Delhi")
	c.JSON(http.StatusOK, h.weatherSvc.Current(c.Request.Context(), location))
}

// WeatherForecast reports the short-range outlook.
func (h *Handler) WeatherForecast(c *gin.Context) {
	location := c.DefaultQuery("location", "Delhi")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	c.JSON(http.StatusOK, gin.H{"forecast": h.weatherSvc.Forecast(c.Request.Context(), location, days)})
}

// ModelStatus reports whether the yield model is serving.
func (h *Handler) ModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictorSvc.Status(c.Request.Context()))
}

// Predict runs the yield model on one input row.
func (h *Handler) Predict(c *gin.Context) {
	var in predictor.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	prediction, err := h.predictorSvc.Predict(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, mapDomainError(err, "predict_failed"))
		return
	}
	c.JSON(http.StatusOK, prediction)
}

func mapDomainError(err error, code string) *HTTPError {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, apperrors.CodeModelNotReady):
		status = http.StatusServiceUnavailable
		code = "model_not_ready"
	case apperrors.IsCode(err, apperrors.CodeUpstreamError):
		status = http.StatusBadGateway
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
