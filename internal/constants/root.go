package constants

const (
	AppName            = "habitgarden"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitgarden"
	DefaultStoragePath = "~/.config/habitgarden/habitgarden.db"
	DefaultConfigFile  = "~/.config/habitgarden/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the calendar day format used for check-ins (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitgarden-"
	BackupFileSuffix = ".db"

	// SessionLockfileName marks a running interactive session in the config dir
	SessionLockfileName = "habitgarden.lock"

	// Environment overrides
	EnvStorage      = "HABITGARDEN_STORAGE"
	EnvDebug        = "HABITGARDEN_DEBUG"
	EnvAchievements = "HABITGARDEN_ACHIEVEMENTS"
	EnvDBConnection = "HABITGARDEN_DB_CONNECTION"
)
