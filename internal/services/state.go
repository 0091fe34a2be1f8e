package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"go.uber.org/zap"
)

// StateStore persists the ModeState JSON file. The file is replaced
// atomically on every mutation; if a write fails the in-memory copy stays
// authoritative until the next successful write.
type StateStore struct {
	mu     sync.Mutex
	path   string
	state  models.ModeState
	logger *zap.Logger
}

func NewStateStore(path string, logger *zap.Logger) *StateStore {
	s := &StateStore{
		path:   path,
		state:  models.DefaultModeState(),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("State file unreadable, using defaults", zap.Error(err))
		}
		return s
	}

	var loaded models.ModeState
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("State file corrupt, using defaults",
			zap.String("path", path),
			zap.Error(err))
		return s
	}

	s.state = loaded
	logger.Debug("State loaded",
		zap.String("mode", string(loaded.Mode)),
		zap.Bool("filter_on", loaded.FilterOn),
		zap.Int("last_kelvin", loaded.LastKelvin))
	return s
}

// Current returns a copy of the persisted state.
func (s *StateStore) Current() models.ModeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the state, stamps it, and persists the result before
// returning. The mutation is kept in memory even when the write fails.
func (s *StateStore) Update(fn func(*models.ModeState)) (models.ModeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.state.UpdatedAt = time.Now()

	if err := s.persistLocked(); err != nil {
		s.logger.Error("Failed to persist state, in-memory state remains authoritative",
			zap.Error(err))
		return s.state, err
	}
	return s.state, nil
}

func (s *StateStore) persistLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode state: %v", ErrPersistence, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create state dir: %v", ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write state: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace state: %v", ErrPersistence, err)
	}
	return nil
}

// ModeController owns every mode/filter transition. All mutators persist the
// full state before returning and apply the matching screen temperature as a
// side effect, so keybindings see an immediate change.
type ModeController struct {
	store    *StateStore
	applier  TemperatureApplier
	notifier *Notifier
	logger   *zap.Logger

	// evaluate runs one automatic cycle; wired to the engine after both
	// exist. May be nil in tests.
	evaluate func()
}

func NewModeController(store *StateStore, applier TemperatureApplier, notifier *Notifier, logger *zap.Logger) *ModeController {
	return &ModeController{
		store:    store,
		applier:  applier,
		notifier: notifier,
		logger:   logger,
	}
}

// SetEvaluate registers the automatic-mode evaluation hook invoked after a
// switch to automatic mode.
func (m *ModeController) SetEvaluate(fn func()) {
	m.evaluate = fn
}

// CurrentState returns the persisted mode state.
func (m *ModeController) CurrentState() models.ModeState {
	return m.store.Current()
}

// ToggleMode flips manual and automatic. Entering manual resets the filter
// and sets the screen to the neutral manual-off profile; entering automatic
// triggers an immediate evaluation cycle.
func (m *ModeController) ToggleMode() (models.ModeState, error) {
	if m.store.Current().Mode == models.ModeManual {
		return m.switchToAutomatic()
	}
	return m.switchToManual()
}

// ForceAuto switches to automatic mode. Already being in automatic mode is
// not an error; changed reports whether anything happened.
func (m *ModeController) ForceAuto() (state models.ModeState, changed bool, err error) {
	if m.store.Current().Mode == models.ModeAutomatic {
		return m.store.Current(), false, nil
	}
	state, err = m.switchToAutomatic()
	return state, true, err
}

// ForceManual switches to manual mode, idempotently.
func (m *ModeController) ForceManual() (state models.ModeState, changed bool, err error) {
	if m.store.Current().Mode == models.ModeManual {
		return m.store.Current(), false, nil
	}
	state, err = m.switchToManual()
	return state, true, err
}

// ToggleFilter flips the blue light filter. Only effective in manual mode;
// in automatic mode the state is persisted untouched (apart from the
// timestamp) and effective is false so callers can warn the user.
func (m *ModeController) ToggleFilter() (state models.ModeState, effective bool, err error) {
	current := m.store.Current()
	if current.Mode != models.ModeManual {
		m.logger.Info("Filter toggle ignored in automatic mode")
		state, err = m.store.Update(func(st *models.ModeState) {})
		return state, false, err
	}

	profile := models.ManualOn
	if current.FilterOn {
		profile = models.ManualOff
	}

	if applyErr := m.applier.Apply(profile.Kelvin); applyErr != nil {
		m.logger.Error("Failed to apply filter temperature", zap.Error(applyErr))
		m.notifier.Send(fmt.Sprintf("Error setting temperature: %v", applyErr))
		return current, true, applyErr
	}

	state, err = m.store.Update(func(st *models.ModeState) {
		st.FilterOn = !st.FilterOn
		st.LastKelvin = profile.Kelvin
	})

	if state.FilterOn {
		m.notifier.Send(fmt.Sprintf("Blue light filter ON (%dK)", profile.Kelvin))
	} else {
		m.notifier.Send(fmt.Sprintf("Blue light filter OFF (%dK)", profile.Kelvin))
	}
	return state, true, err
}

func (m *ModeController) switchToManual() (models.ModeState, error) {
	if err := m.applier.Apply(models.ManualOff.Kelvin); err != nil {
		m.logger.Error("Failed to apply neutral temperature", zap.Error(err))
		m.notifier.Send(fmt.Sprintf("Error setting temperature: %v", err))
	}

	state, err := m.store.Update(func(st *models.ModeState) {
		st.Mode = models.ModeManual
		st.FilterOn = false
		st.LastKelvin = models.ManualOff.Kelvin
	})

	m.logger.Info("Switched to manual mode")
	m.notifier.Send(fmt.Sprintf("Switched to manual mode, screen set to neutral (%dK)", models.ManualOff.Kelvin))
	return state, err
}

func (m *ModeController) switchToAutomatic() (models.ModeState, error) {
	_, err := m.store.Update(func(st *models.ModeState) {
		st.Mode = models.ModeAutomatic
		st.FilterOn = false
	})

	m.logger.Info("Switched to automatic mode")
	m.notifier.Send("Switched to automatic mode")

	// Re-evaluate right away so the screen reflects automatic selection
	// without waiting for the next scheduled cycle.
	if m.evaluate != nil {
		m.evaluate()
	}
	return m.store.Current(), err
}
