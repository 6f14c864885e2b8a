package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Zone     ZoneConfig
	Media    MediaConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Worker   WorkerConfig
	Points   PointsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ZoneConfig описывает допустимую зону приёма отчётов:
// прямоугольник + круг от центра, круг строже
type ZoneConfig struct {
	North       float64
	South       float64
	East        float64
	West        float64
	CenterLat   float64
	CenterLng   float64
	MaxRadiusKm float64
}

type MediaConfig struct {
	MaxImageBytes    int64
	MaxAudioBytes    int64
	MaxImageWidth    int
	MaxImageHeight   int
	UploadTimeout    time.Duration
	ImageExtensions  []string
	AudioExtensions  []string
}

type StorageConfig struct {
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool
	PublicURL   string
	LocalDir    string
	LocalURL    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type WorkerConfig struct {
	Count             int
	QueueSize         int
	ShutdownTimeout   time.Duration
	ReconcileEnabled  bool
	ReconcileInterval time.Duration
}

type PointsConfig struct {
	ReportSubmitted int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional, environment variables are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			AllowOrigins: viper.GetString("API_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Zone: ZoneConfig{
			North:       viper.GetFloat64("ZONE_NORTH"),
			South:       viper.GetFloat64("ZONE_SOUTH"),
			East:        viper.GetFloat64("ZONE_EAST"),
			West:        viper.GetFloat64("ZONE_WEST"),
			CenterLat:   viper.GetFloat64("ZONE_CENTER_LAT"),
			CenterLng:   viper.GetFloat64("ZONE_CENTER_LNG"),
			MaxRadiusKm: viper.GetFloat64("ZONE_MAX_RADIUS_KM"),
		},
		Media: MediaConfig{
			MaxImageBytes:   viper.GetInt64("MEDIA_MAX_IMAGE_BYTES"),
			MaxAudioBytes:   viper.GetInt64("MEDIA_MAX_AUDIO_BYTES"),
			MaxImageWidth:   viper.GetInt("MEDIA_MAX_IMAGE_WIDTH"),
			MaxImageHeight:  viper.GetInt("MEDIA_MAX_IMAGE_HEIGHT"),
			UploadTimeout:   time.Duration(viper.GetInt("MEDIA_UPLOAD_TIMEOUT")) * time.Second,
			ImageExtensions: parseList(viper.GetString("MEDIA_IMAGE_EXTENSIONS")),
			AudioExtensions: parseList(viper.GetString("MEDIA_AUDIO_EXTENSIONS")),
		},
		Storage: StorageConfig{
			S3Endpoint:  viper.GetString("S3_ENDPOINT"),
			S3AccessKey: viper.GetString("S3_ACCESS_KEY"),
			S3SecretKey: viper.GetString("S3_SECRET_KEY"),
			S3Bucket:    viper.GetString("S3_BUCKET"),
			S3Region:    viper.GetString("S3_REGION"),
			S3UseSSL:    viper.GetBool("S3_USE_SSL"),
			PublicURL:   viper.GetString("S3_PUBLIC_URL"),
			LocalDir:    viper.GetString("STORAGE_LOCAL_DIR"),
			LocalURL:    viper.GetString("STORAGE_LOCAL_URL"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Worker: WorkerConfig{
			Count:             viper.GetInt("WORKER_COUNT"),
			QueueSize:         viper.GetInt("WORKER_QUEUE_SIZE"),
			ShutdownTimeout:   time.Duration(viper.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
			ReconcileEnabled:  viper.GetBool("WORKER_RECONCILE_ENABLED"),
			ReconcileInterval: time.Duration(viper.GetInt("WORKER_RECONCILE_INTERVAL")) * time.Second,
		},
		Points: PointsConfig{
			ReportSubmitted: viper.GetInt("POINTS_REPORT_SUBMITTED"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Zone.MaxRadiusKm == 0 {
		cfg.Zone.MaxRadiusKm = 60
	}
	if cfg.Zone.CenterLat == 0 && cfg.Zone.CenterLng == 0 {
		// Conakry metropolitan area
		cfg.Zone.CenterLat = 9.6412
		cfg.Zone.CenterLng = -13.5784
		cfg.Zone.North = 10.2
		cfg.Zone.South = 9.0
		cfg.Zone.East = -13.0
		cfg.Zone.West = -14.2
	}
	if cfg.Media.MaxImageBytes == 0 {
		cfg.Media.MaxImageBytes = 10 << 20 // 10 MB
	}
	if cfg.Media.MaxAudioBytes == 0 {
		cfg.Media.MaxAudioBytes = 15 << 20 // 15 MB
	}
	if cfg.Media.MaxImageWidth == 0 {
		cfg.Media.MaxImageWidth = 8000
	}
	if cfg.Media.MaxImageHeight == 0 {
		cfg.Media.MaxImageHeight = 8000
	}
	if cfg.Media.UploadTimeout == 0 {
		cfg.Media.UploadTimeout = 15 * time.Second
	}
	if len(cfg.Media.ImageExtensions) == 0 {
		cfg.Media.ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	}
	if len(cfg.Media.AudioExtensions) == 0 {
		cfg.Media.AudioExtensions = []string{".mp3", ".m4a", ".ogg", ".wav", ".webm"}
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./uploads"
	}
	if cfg.Storage.LocalURL == "" {
		cfg.Storage.LocalURL = "/uploads"
	}
	if cfg.Worker.Count == 0 {
		cfg.Worker.Count = 4
	}
	if cfg.Worker.QueueSize == 0 {
		cfg.Worker.QueueSize = 256
	}
	if cfg.Worker.ShutdownTimeout == 0 {
		cfg.Worker.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Worker.ReconcileInterval == 0 {
		cfg.Worker.ReconcileInterval = time.Hour
	}
	if cfg.Points.ReportSubmitted == 0 {
		cfg.Points.ReportSubmitted = 10
	}

	return cfg, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN собирает строку подключения в формате key=value
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
