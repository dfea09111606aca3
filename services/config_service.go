package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
)

type ConfigService interface {
	Get(ctx context.Context, key string) (string, error)
	Bool(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string) (*models.AppConfigEntry, error)
	All(ctx context.Context) (map[string]string, error)
}

type configService struct {
	repo     repositories.AppConfigRepository
	notifier StandingsNotifier
}

func NewConfigService(repo repositories.AppConfigRepository, notifier StandingsNotifier) ConfigService {
	return &configService{repo: repo, notifier: notifierOrNoop(notifier)}
}

func isBoolKey(key string) bool {
	return key == models.ConfigResultsPublished || key == models.ConfigRegistrationOpen
}

func (s *configService) Get(ctx context.Context, key string) (string, error) {
	def, known := models.ConfigDefaults[key]
	if !known {
		return "", ErrUnknownConfigKey
	}
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrConfigKeyNotFound) {
			return def, nil
		}
		return "", fmt.Errorf("failed to read config %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *configService) Bool(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidConfigValue, key, v)
	}
	return b, nil
}

func (s *configService) Set(ctx context.Context, key, value string) (*models.AppConfigEntry, error) {
	if _, known := models.ConfigDefaults[key]; !known {
		return nil, ErrUnknownConfigKey
	}
	value = strings.TrimSpace(value)
	if isBoolKey(key) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false", ErrInvalidConfigValue, key)
		}
		value = strconv.FormatBool(b)
	} else if value == "" {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidConfigValue, key)
	}

	entry, err := s.repo.Set(ctx, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to store config %s: %w", key, err)
	}
	if key == models.ConfigResultsPublished {
		s.notifier.StandingsChanged("results_visibility", nil)
	}
	return entry, nil
}

func (s *configService) All(ctx context.Context) (map[string]string, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list config: %w", err)
	}
	out := make(map[string]string, len(models.ConfigDefaults))
	for k, v := range models.ConfigDefaults {
		out[k] = v
	}
	for _, e := range entries {
		if _, known := models.ConfigDefaults[e.Key]; known {
			out[e.Key] = e.Value
		}
	}
	return out, nil
}
