package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
)

// ConfigsKey is the app_setting key the importer configuration is stored under.
const ConfigsKey = "importer_configs"

// ConfigService loads and stores the user-maintained symbol mappings.
type ConfigService struct {
	settingRepo *repository.SettingRepository
	logger      *log.Logger
}

// NewConfigService creates a new ConfigService with the provided repository dependencies.
func NewConfigService(settingRepo *repository.SettingRepository, logger *log.Logger) *ConfigService {
	return &ConfigService{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// LoadConfigs returns the stored configuration. It never fails: a missing,
// unreadable or corrupt value yields DefaultConfigs, and anything but a
// missing value is logged.
func (s *ConfigService) LoadConfigs(ctx context.Context) model.Configs {
	raw, err := s.settingRepo.Get(ctx, ConfigsKey)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return model.DefaultConfigs()
	}
	if err != nil {
		s.logger.Warn("failed to load importer configs", "err", err)
		return model.DefaultConfigs()
	}

	var configs model.Configs
	if err := json.Unmarshal([]byte(raw), &configs); err != nil {
		s.logger.Warn("stored importer configs are corrupt, using defaults", "err", err)
		return model.DefaultConfigs()
	}

	return configs.Sanitize()
}

// SaveConfigs replaces the stored configuration and returns what was stored.
func (s *ConfigService) SaveConfigs(ctx context.Context, req request.UpdateConfigsRequest) (model.Configs, error) {
	configs := model.Configs{KuveraFunds: make([]model.KuveraFund, 0, len(req.KuveraFunds))}
	for _, f := range req.KuveraFunds {
		configs.KuveraFunds = append(configs.KuveraFunds, model.KuveraFund{Name: f.Name, Symbol: f.Symbol})
	}
	configs = configs.Sanitize()

	payload, err := json.Marshal(configs)
	if err != nil {
		return model.Configs{}, fmt.Errorf("failed to encode configs: %w", err)
	}

	if err := s.settingRepo.Set(ctx, ConfigsKey, string(payload)); err != nil {
		return model.Configs{}, fmt.Errorf("failed to save configs: %w", err)
	}

	return configs, nil
}
