// ABOUTME: AppState persistence for Charm KV storage.
// ABOUTME: Each collection item gets a type-prefixed, order-preserving key.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
	"github.com/harperreed/care4u/internal/storage"
)

const (
	SettingsKey      = "state:settings"
	AccountPrefix    = "account:"
	MedicationPrefix = "medication:"
	VitalPrefix      = "vital:"
	HistoryPrefix    = "history:"
	MessagePrefix    = "message:"
)

// managedPrefixes are wiped and rewritten on every save.
var managedPrefixes = []string{SettingsKey, AccountPrefix, MedicationPrefix, VitalPrefix, HistoryPrefix, MessagePrefix}

var _ storage.Repository = (*Client)(nil)

type settingsRecord struct {
	User           models.UserProfile `json:"user"`
	PlantName      string             `json:"plant_name"`
	SelectedPot    models.Pot         `json:"selected_pot"`
	CurrentView    models.View        `json:"current_view"`
	Theme          models.Theme       `json:"theme"`
	OnboardingStep onboarding.Step    `json:"onboarding_step"`
}

// positionKey builds a key that sorts in insertion order.
func positionKey(prefix string, pos int, id string) string {
	if id == "" {
		return fmt.Sprintf("%s%06d", prefix, pos)
	}
	return fmt.Sprintf("%s%06d:%s", prefix, pos, id)
}

// encodeState flattens a state into KV records.
func encodeState(st *models.AppState) (map[string][]byte, error) {
	records := make(map[string][]byte)
	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		records[key] = data
		return nil
	}

	settings := settingsRecord{
		User:           st.User,
		PlantName:      st.PlantName,
		SelectedPot:    st.SelectedPot,
		CurrentView:    st.CurrentView,
		Theme:          st.Theme,
		OnboardingStep: st.OnboardingStep,
	}
	if err := put(SettingsKey, settings); err != nil {
		return nil, err
	}
	for i, a := range st.Accounts {
		if err := put(positionKey(AccountPrefix, i, a.Username), a); err != nil {
			return nil, err
		}
	}
	for i, m := range st.Medications {
		if err := put(positionKey(MedicationPrefix, i, m.ID), m); err != nil {
			return nil, err
		}
	}
	for i, v := range st.Vitals {
		if err := put(positionKey(VitalPrefix, i, v.ID), v); err != nil {
			return nil, err
		}
	}
	for i, h := range st.History {
		if err := put(positionKey(HistoryPrefix, i, h.Date), h); err != nil {
			return nil, err
		}
	}
	pos := 0
	for _, m := range st.ChatMessages {
		if m.IsStreaming {
			continue
		}
		if err := put(positionKey(MessagePrefix, pos, ""), m); err != nil {
			return nil, err
		}
		pos++
	}
	return records, nil
}

// decodeState rebuilds a state from KV records.
func decodeState(records map[string][]byte) (*models.AppState, error) {
	raw, ok := records[SettingsKey]
	if !ok {
		return nil, storage.ErrNoState
	}
	settings, err := unmarshalJSON[settingsRecord](raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	st := &models.AppState{
		User:           settings.User,
		PlantName:      settings.PlantName,
		SelectedPot:    settings.SelectedPot,
		CurrentView:    settings.CurrentView,
		Theme:          settings.Theme,
		OnboardingStep: settings.OnboardingStep,
	}
	if st.Accounts, err = decodeList[models.UserProfile](records, AccountPrefix); err != nil {
		return nil, err
	}
	if st.Medications, err = decodeList[models.Medication](records, MedicationPrefix); err != nil {
		return nil, err
	}
	if st.Vitals, err = decodeList[models.Vital](records, VitalPrefix); err != nil {
		return nil, err
	}
	if st.History, err = decodeList[models.HistoryLog](records, HistoryPrefix); err != nil {
		return nil, err
	}
	if st.ChatMessages, err = decodeList[models.Message](records, MessagePrefix); err != nil {
		return nil, err
	}
	return st, nil
}

// decodeList unmarshals every record under prefix in key order.
func decodeList[T any](records map[string][]byte, prefix string) ([]T, error) {
	var keys []string
	for k := range records {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		v, err := unmarshalJSON[T](records[k])
		if err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", k, err)
		}
		out = append(out, *v)
	}
	return out, nil
}

// SaveState replaces the stored state and syncs once.
func (c *Client) SaveState(st *models.AppState) error {
	records, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := c.replacePrefixed(managedPrefixes, records); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState reads the stored state.
func (c *Client) LoadState() (*models.AppState, error) {
	records, err := c.listPrefixed(managedPrefixes)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	st, err := decodeState(records)
	if err != nil && !errors.Is(err, storage.ErrNoState) {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, err
}
