package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"crop_service/internal/core"
	"crop_service/internal/domain/model"
)

type Handler struct {
	service       *core.RecommendationService
	weatherLoaded bool
	logger        *slog.Logger
}

func NewHandler(service *core.RecommendationService, weatherLoaded bool, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		weatherLoaded: weatherLoaded,
		logger:        logger.With("module", "http"),
	}
}

type RecommendRequest struct {
	Region string `json:"region"`
}

type RiskAnalysisRequest struct {
	Region string `json:"region"`
	Crop   string `json:"crop"`
}

type SimulationRequest struct {
	Crop           string  `json:"crop"`
	RainfallMM     float64 `json:"rainfall_mm"`
	TemperatureC   float64 `json:"temperature_c"`
	Simulations    int     `json:"simulations"`
	RainfallStd    float64 `json:"rainfall_std"`
	TemperatureStd float64 `json:"temperature_std"`
}

type WeatherSummary struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

type CropConfidence struct {
	Crop              model.CropName `json:"crop"`
	ConfidencePercent float64        `json:"confidence_percent"`
}

type RiskAnalysisResponse struct {
	Weather             WeatherSummary    `json:"weather"`
	SelectedCrop        core.SelectedCrop `json:"selected_crop"`
	ModelRecommendation CropConfidence    `json:"model_recommendation"`
	Top3                []CropConfidence  `json:"top_3_recommendations"`
	Worst               CropConfidence    `json:"worst_recommendation"`
	AgronomicNote       string            `json:"agronomic_note"`
	Engine              string            `json:"engine"`
}

const maxSimulations = 100000

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"status":             "Backend running",
		"weather_api_loaded": h.weatherLoaded,
		"engine":             core.EngineName,
	})
}

func (h *Handler) ListCrops(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Crops())
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}

	report, err := h.service.Recommend(r.Context(), req.Region)
	if err != nil {
		h.fail(w, r, "recommend", err)
		return
	}
	writeSuccess(w, http.StatusOK, report)
}

func (h *Handler) RiskAnalysis(w http.ResponseWriter, r *http.Request) {
	var req RiskAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	if strings.TrimSpace(req.Crop) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "crop is required", requestIDFromContext(r.Context()))
		return
	}

	analysis, err := h.service.Analyze(r.Context(), req.Region, req.Crop)
	if err != nil {
		h.fail(w, r, "risk_analysis", err)
		return
	}

	rec := analysis.Report.Recommendation
	top := make([]CropConfidence, 0, len(rec.Top3))
	for _, s := range rec.Top3 {
		top = append(top, toCropConfidence(s))
	}
	weather := analysis.Report.Weather

	writeSuccess(w, http.StatusOK, RiskAnalysisResponse{
		Weather: WeatherSummary{
			Temperature: weather.WeeklyAvgTemperature,
			Humidity:    weather.WeeklyAvgHumidity,
			Rainfall:    weather.EstimatedMonthlyRainfall,
		},
		SelectedCrop:        analysis.Selected,
		ModelRecommendation: toCropConfidence(rec.Ranked[0]),
		Top3:                top,
		Worst:               toCropConfidence(rec.Worst),
		AgronomicNote:       analysis.Report.AgronomicNote,
		Engine:              analysis.Report.Engine,
	})
}

func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	crop, err := model.ParseCropName(req.Crop)
	if err != nil {
		h.fail(w, r, "simulate", err)
		return
	}
	if req.Simulations < 0 || req.Simulations > maxSimulations {
		writeError(w, http.StatusBadRequest, "invalid_request", "simulations out of range", requestIDFromContext(r.Context()))
		return
	}

	result := h.service.Simulate(crop, req.RainfallMM, req.TemperatureC, core.SimulationParams{
		Simulations:    req.Simulations,
		RainfallStd:    req.RainfallStd,
		TemperatureStd: req.TemperatureStd,
	})
	writeSuccess(w, http.StatusOK, result)
}

func toCropConfidence(s model.ScoreRecord) CropConfidence {
	return CropConfidence{Crop: s.Crop, ConfidencePercent: s.ConfidencePercent}
}
