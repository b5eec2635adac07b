package daemon

import (
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/currency"
	"github.com/mushya-portal/mushya-portal/internal/store"
)

var seedDepartments = []string{
	"Engineering",
	"Finance",
	"Human Resources",
	"Marketing",
	"Operations",
	"Sales",
}

// seed writes first-start data. Built-in accounts and roles need no
// seeding: the stores merge them into every read. Existing records are
// never touched, so seeding is safe to run on every start.
func seed(kv *store.KV) error {
	departments := store.NewDepartments(kv)

	existing, err := departments.List()
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		for _, name := range seedDepartments {
			if _, err := departments.Create(name); err != nil {
				return err
			}
		}

		log.Info().Int("count", len(seedDepartments)).Msg("seeded departments")
	}

	var settings currency.Settings

	found, err := kv.GetJSON(store.KeyCurrencySettings, &settings)
	if err != nil {
		return err
	}

	if !found {
		if err := kv.SetJSON(store.KeyCurrencySettings, currency.DefaultSettings()); err != nil {
			return err
		}

		log.Info().Msg("seeded currency settings")
	}

	return nil
}
