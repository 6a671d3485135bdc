package config

import (
	"github.com/spf13/viper"
)

// ImagePersistence selects where newly added book covers are persisted.
type ImagePersistence string

const (
	// ImagePersistenceLocal saves new covers to the app-private directory
	// (default; the cover is only visible on the device that added it).
	ImagePersistenceLocal ImagePersistence = "local"
	// ImagePersistenceRemote uploads new covers to blob storage so they
	// are visible to other devices.
	ImagePersistenceRemote ImagePersistence = "remote"
)

type (
	Config struct {
		HTTP
		Database
		Blobs
		Images
		Auth
		Janitor
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Blobs struct {
		Dir           string // Root directory for stored blob objects
		PublicBaseURL string // Base URL under which objects are served
	}
	Images struct {
		LocalDir     string // App-private directory for locally saved images
		MaxDimension int    // Neither side of a saved cover exceeds this
		JPEGQuality  int
		Persistence  ImagePersistence
	}
	Auth struct {
		BcryptCost int
	}
	Janitor struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8790)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./sharebook.db")
	v.SetDefault("blobs_dir", "./blobs")
	v.SetDefault("blobs_public_base_url", "")
	v.SetDefault("images_local_dir", "./data")
	v.SetDefault("images_max_dimension", 800)
	v.SetDefault("images_jpeg_quality", 85)
	v.SetDefault("images_persistence", "local")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("janitor_enabled", true)
	v.SetDefault("janitor_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Blobs: Blobs{
			Dir:           v.GetString("BLOBS_DIR"),
			PublicBaseURL: v.GetString("BLOBS_PUBLIC_BASE_URL"),
		},
		Images: Images{
			LocalDir:     v.GetString("IMAGES_LOCAL_DIR"),
			MaxDimension: v.GetInt("IMAGES_MAX_DIMENSION"),
			JPEGQuality:  v.GetInt("IMAGES_JPEG_QUALITY"),
			Persistence:  ImagePersistence(v.GetString("IMAGES_PERSISTENCE")),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Janitor: Janitor{
			Enabled:  v.GetBool("JANITOR_ENABLED"),
			Schedule: v.GetString("JANITOR_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
