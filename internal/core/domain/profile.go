package domain

// =============================================================================
// Deployment Profile
// =============================================================================

// DefaultDBPort is written to the environment file for both profiles.
const DefaultDBPort = 5432

// ProfileDefaults holds every value that depends on the production flag.
type ProfileDefaults struct {
	Production     bool
	EnablePostgres bool

	DBUser string
	DBName string
	DBHost string
	DBPort int

	CPULimit    string
	MemLimit    string
	CullTimeout int // seconds, 0 = culling disabled
	CullEvery   int // seconds
}

// DeriveProfile returns the defaults for the production or development profile.
//
// Production adds a Postgres database, per-user resource limits and the
// idle culler. Development leaves all of them empty so the hub falls back to
// SQLite and unlimited containers.
//
// This is a pure function with no side effects.
func DeriveProfile(production bool) ProfileDefaults {
	if !production {
		return ProfileDefaults{DBPort: DefaultDBPort}
	}
	return ProfileDefaults{
		Production:     true,
		EnablePostgres: true,
		DBUser:         "mvre",
		DBName:         "mvre_hub",
		DBHost:         "postgres",
		DBPort:         DefaultDBPort,
		CPULimit:       "2",
		MemLimit:       "4G",
		CullTimeout:    3600,
		CullEvery:      300,
	}
}
