package preferences

import (
	"fmt"
	"strconv"

	"github.com/noah-isme/campus-complaints/internal/client/session"
)

// DarkModeKey names the persisted theme flag.
const DarkModeKey = "darkMode"

// Preferences reads and writes local UI preferences.
type Preferences struct {
	kv session.KeyValueStore
}

// New wraps kv.
func New(kv session.KeyValueStore) *Preferences {
	return &Preferences{kv: kv}
}

// DarkMode reports the stored flag; anything but "true" means light.
func (p *Preferences) DarkMode() (bool, error) {
	raw, ok, err := p.kv.Get(DarkModeKey)
	if err != nil {
		return false, fmt.Errorf("read dark mode: %w", err)
	}
	return ok && raw == "true", nil
}

// SetDarkMode persists the flag.
func (p *Preferences) SetDarkMode(on bool) error {
	if err := p.kv.Set(DarkModeKey, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("write dark mode: %w", err)
	}
	return nil
}

// ToggleDarkMode flips the flag and returns the new value.
func (p *Preferences) ToggleDarkMode() (bool, error) {
	on, err := p.DarkMode()
	if err != nil {
		return false, err
	}
	if err := p.SetDarkMode(!on); err != nil {
		return false, err
	}
	return !on, nil
}
