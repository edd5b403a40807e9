package handlers

import (
	"net/http"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Statement-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
	"github.com/ndewijer/Broker-Statement-Importer/internal/validation"
)

// ConfigHandler handles HTTP requests for the importer configuration.
type ConfigHandler struct {
	configService *service.ConfigService
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configService *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{
		configService: configService,
	}
}

// GetConfigs handles GET requests for the stored Kuvera fund mappings.
// Falls back to the defaults when nothing usable is stored.
//
// Endpoint: GET /api/config
// Response: 200 OK with Configs
func (h *ConfigHandler) GetConfigs(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.configService.LoadConfigs(r.Context()))
}

// UpdateConfigs handles PUT requests replacing the Kuvera fund mappings.
//
// Endpoint: PUT /api/config
// Request Body: UpdateConfigsRequest (kuveraFunds)
// Response: 200 OK with the stored Configs
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if saving fails
func (h *ConfigHandler) UpdateConfigs(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateConfigsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateConfigs(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	configs, err := h.configService.SaveConfigs(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveConfigs.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, configs)
}
