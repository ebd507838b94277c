package configs

import "time"

// Engine configures the selection engine itself. Schedule fields carry no
// timezone indicator, so all calendar math runs in one reference location.
type Engine struct {
	// Timezone is the IANA name of the reference timezone for schedule
	// evaluation and frequency windows.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`
	// SnapshotTTL bounds how stale the servable-candidate snapshot may
	// get before the next request re-reads it. Zero disables the cache.
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"2s"`
}

// Location resolves the configured timezone.
func (e Engine) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}
