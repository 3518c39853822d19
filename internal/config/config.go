package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"storefront/internal/domain/listing"
	"storefront/internal/domain/model"
	"storefront/internal/infra/api"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	CatalogSource  model.CatalogSource // api / postgres
	CatalogAPIURL  string              // 商品APIのURL
	CatalogTimeout time.Duration       // 商品API取得のタイムアウト

	PageSize int // 一覧の1ページの件数（8 or 16）

	JWTSecret string // 管理API用のJWT署名シークレット（空なら管理APIなし）

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable など
}

// .envを読み込む（無ければ何もしない）
func LoadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	pageSize, err := atoiDefault("LISTING_PAGE_SIZE", listing.DefaultPageSize)
	if err != nil {
		return Config{}, err
	}
	timeout, err := durationDefault("CATALOG_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		CatalogSource:  model.CatalogSource(strings.ToLower(getenv("CATALOG_SOURCE", string(model.CatalogSourceAPI)))),
		CatalogAPIURL:  getenv("CATALOG_API_URL", api.DefaultEndpoint),
		CatalogTimeout: timeout,

		PageSize: pageSize,

		JWTSecret: os.Getenv("JWT_SECRET"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
	}

	//値チェック
	switch cfg.CatalogSource {
	case model.CatalogSourceAPI, model.CatalogSourcePostgres:
	default:
		return Config{}, fmt.Errorf("CATALOG_SOURCE must be api or postgres")
	}
	if cfg.PageSize != listing.PageSizeGrid && cfg.PageSize != listing.PageSizeWide {
		return Config{}, fmt.Errorf("LISTING_PAGE_SIZE must be %d or %d", listing.PageSizeGrid, listing.PageSizeWide)
	}
	if cfg.CatalogTimeout <= 0 {
		return Config{}, fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}

	return cfg, nil
}

// listen用のアドレス（":8080"）
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
