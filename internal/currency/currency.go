// Package currency manages the portal's currency display settings and
// amount conversion between Rwandan francs and US dollars.
package currency

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/mushya-portal/mushya-portal/internal/store"
)

// Supported currency codes.
const (
	RWF = "RWF"
	USD = "USD"
)

// DefaultExchangeRate is the fallback RWF per USD rate.
const DefaultExchangeRate = 1300

// Settings holds the portal-wide currency preferences.
type Settings struct {
	DefaultCurrency    string  `json:"default_currency"`
	ShowBothCurrencies bool    `json:"show_both_currencies"`
	ExchangeRate       float64 `json:"exchange_rate"`
}

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() Settings {
	return Settings{
		DefaultCurrency:    RWF,
		ShowBothCurrencies: true,
		ExchangeRate:       DefaultExchangeRate,
	}
}

// Manager reads and writes currency settings through the key-value store
// and keeps a cached copy for cheap reads. The cache is refreshed on
// every write and by the Watch reconciler.
type Manager struct {
	kv *store.KV

	mu       sync.RWMutex
	settings Settings
}

// NewManager creates a manager with the default settings cached. Call
// Load to pick up any stored settings.
func NewManager(kv *store.KV) *Manager {
	return &Manager{
		kv:       kv,
		settings: DefaultSettings(),
	}
}

// Load refreshes the cached settings from the store. An absent record
// keeps the defaults.
func (m *Manager) Load() error {
	var s Settings

	found, err := m.kv.GetJSON(store.KeyCurrencySettings, &s)
	if err != nil {
		return err
	}

	if !found {
		return nil
	}

	if s.ExchangeRate <= 0 {
		s.ExchangeRate = DefaultExchangeRate
	}

	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()

	return nil
}

// Settings returns the cached settings.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.settings
}

// Update validates, persists and caches new settings.
func (m *Manager) Update(s Settings) error {
	if s.DefaultCurrency != RWF && s.DefaultCurrency != USD {
		return fmt.Errorf("unsupported currency %q", s.DefaultCurrency)
	}

	if s.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive, got %v", s.ExchangeRate)
	}

	if err := m.kv.SetJSON(store.KeyCurrencySettings, s); err != nil {
		return err
	}

	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()

	return nil
}

// ConvertToDefault converts an amount from the given currency into the
// configured default currency.
func (m *Manager) ConvertToDefault(amount float64, from string) float64 {
	s := m.Settings()

	if from == s.DefaultCurrency {
		return amount
	}

	if s.DefaultCurrency == RWF {
		return amount * s.ExchangeRate
	}

	return amount / s.ExchangeRate
}

// Format renders an amount of the given currency in the default
// currency. Francs are shown without decimals, dollars with two.
func (m *Manager) Format(amount float64, from string) string {
	converted := m.ConvertToDefault(amount, from)
	s := m.Settings()

	if s.DefaultCurrency == RWF {
		return "RWF " + groupThousands(math.Round(converted), 0)
	}

	return "$" + groupThousands(converted, 2)
}

// FormatBoth renders an amount in the default currency plus, when
// enabled, an approximation in the other currency.
func (m *Manager) FormatBoth(amount float64, from string) (primary, secondary string) {
	converted := m.ConvertToDefault(amount, from)
	s := m.Settings()

	if s.DefaultCurrency == RWF {
		primary = "RWF " + groupThousands(math.Round(converted), 0)
		if s.ShowBothCurrencies {
			secondary = "~ $" + groupThousands(converted/s.ExchangeRate, 2)
		}

		return primary, secondary
	}

	primary = "$" + groupThousands(converted, 2)
	if s.ShowBothCurrencies {
		secondary = "~ RWF " + groupThousands(math.Round(converted*s.ExchangeRate), 0)
	}

	return primary, secondary
}

// groupThousands formats a number with comma-separated thousands and a
// fixed number of decimals.
func groupThousands(v float64, decimals int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	str := fmt.Sprintf("%.*f", decimals, v)

	intPart := str

	var fracPart string

	if idx := strings.IndexByte(str, '.'); idx >= 0 {
		intPart, fracPart = str[:idx], str[idx:]
	}

	var b strings.Builder

	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}

	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}

	return out
}
