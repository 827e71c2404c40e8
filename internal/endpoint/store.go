package endpoint

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
	"github.com/ymzhao/vodbridge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store manages the persisted registry of upstream API endpoints and
// which one is current. All mutations are serialized and written in a
// single transaction, so readers never observe a half-updated registry.
type Store struct {
	mu        sync.Mutex
	db        *gorm.DB
	logger    *logger.Logger
	listeners []func()
}

// NewStore creates a store backed by the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		logger: logger.AppLogger(),
	}
}

// NewStoreWithLogger creates a store with a custom logger.
func NewStoreWithLogger(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log,
	}
}

// OnChange registers a callback invoked after every successful mutation.
// Callbacks run outside the store lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// List returns all registered endpoints in registration order.
func (s *Store) List() ([]models.EndpointDescriptor, error) {
	endpoints, _, err := s.load(s.db)
	return endpoints, err
}

// Current returns the currently selected endpoint, or nil when the
// registry is empty or the stored index no longer points at an entry.
func (s *Store) Current() (*models.EndpointDescriptor, error) {
	endpoints, current, err := s.load(s.db)
	if err != nil {
		return nil, err
	}
	if current < 0 || current >= len(endpoints) {
		return nil, nil
	}
	ep := endpoints[current]
	return &ep, nil
}

// Add registers a new endpoint. The URL is normalized before storage and
// duplicates (by normalized URL) are rejected. The first endpoint ever
// added becomes current automatically.
func (s *Store) Add(name, url string) error {
	normalized := models.NormalizeEndpointURL(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		endpoints, _, err := s.load(tx)
		if err != nil {
			return err
		}
		for _, ep := range endpoints {
			if ep.URL == normalized {
				return apperrors.DuplicateEndpoint(normalized)
			}
		}
		endpoints = append(endpoints, models.EndpointDescriptor{Name: name, URL: normalized})
		if err := s.saveEndpoints(tx, endpoints); err != nil {
			return err
		}
		if len(endpoints) == 1 {
			return s.saveCurrent(tx, 0)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"name": name,
		"url":  normalized,
	}).Info("registered API endpoint")
	s.notify()
	return nil
}

// Remove deletes the endpoint at index. When the removed index is at or
// before the current one, the current index shifts down by one and is
// clamped into the remaining range (clamp-after-removal rule).
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		endpoints, current, err := s.load(tx)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(endpoints) {
			return apperrors.IndexOutOfRange(index, len(endpoints))
		}
		endpoints = append(endpoints[:index], endpoints[index+1:]...)
		if err := s.saveEndpoints(tx, endpoints); err != nil {
			return err
		}

		if index <= current {
			current--
		}
		if current < 0 {
			current = 0
		}
		if current >= len(endpoints) {
			current = len(endpoints) - 1
		}
		if current < 0 {
			current = 0
		}
		return s.saveCurrent(tx, current)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"index": index}).Info("removed API endpoint")
	s.notify()
	return nil
}

// Switch selects the endpoint at index as current.
func (s *Store) Switch(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		endpoints, _, err := s.load(tx)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(endpoints) {
			return apperrors.IndexOutOfRange(index, len(endpoints))
		}
		return s.saveCurrent(tx, index)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"index": index}).Info("switched API endpoint")
	s.notify()
	return nil
}

// UpdateCurrentURL replaces the URL of the current endpoint, keeping its
// name. The new URL is normalized before storage.
func (s *Store) UpdateCurrentURL(newURL string) error {
	normalized := models.NormalizeEndpointURL(newURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		endpoints, current, err := s.load(tx)
		if err != nil {
			return err
		}
		if current < 0 || current >= len(endpoints) {
			return apperrors.NoCurrentEndpoint()
		}
		endpoints[current].URL = normalized
		return s.saveEndpoints(tx, endpoints)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"url": normalized}).Info("updated current API endpoint URL")
	s.notify()
	return nil
}

// load reads the registry and current index from the settings table.
// Missing rows mean an empty registry with index 0.
func (s *Store) load(tx *gorm.DB) ([]models.EndpointDescriptor, int, error) {
	endpointsJSON, err := s.getSetting(tx, models.SettingKeyEndpoints, "[]")
	if err != nil {
		return nil, 0, err
	}

	var endpoints []models.EndpointDescriptor
	if err := json.Unmarshal([]byte(endpointsJSON), &endpoints); err != nil {
		return nil, 0, apperrors.StorageError("corrupt endpoint registry", err)
	}

	indexRaw, err := s.getSetting(tx, models.SettingKeyCurrentIndex, "0")
	if err != nil {
		return nil, 0, err
	}
	current, err := strconv.Atoi(indexRaw)
	if err != nil {
		return nil, 0, apperrors.StorageError("corrupt current endpoint index", err)
	}

	return endpoints, current, nil
}

func (s *Store) getSetting(tx *gorm.DB, key, fallback string) (string, error) {
	var setting models.Setting
	err := tx.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", apperrors.StorageError("failed to read setting", err).WithContext("key", key)
	}
	return setting.Value, nil
}

func (s *Store) putSetting(tx *gorm.DB, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
	if err != nil {
		return apperrors.StorageError("failed to write setting", err).WithContext("key", key)
	}
	return nil
}

func (s *Store) saveEndpoints(tx *gorm.DB, endpoints []models.EndpointDescriptor) error {
	if endpoints == nil {
		endpoints = []models.EndpointDescriptor{}
	}
	data, err := json.Marshal(endpoints)
	if err != nil {
		return apperrors.StorageError("failed to encode endpoint registry", err)
	}
	return s.putSetting(tx, models.SettingKeyEndpoints, string(data))
}

func (s *Store) saveCurrent(tx *gorm.DB, index int) error {
	return s.putSetting(tx, models.SettingKeyCurrentIndex, strconv.Itoa(index))
}
