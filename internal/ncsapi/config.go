package ncsapi

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type App struct {
	Rdb *redis.Client
	Db  *gorm.DB
	Aqc *asynq.Client
	Aqi *asynq.Inspector
}

type AppConfig struct {
	Settings AppSettings `json:"settings"`
	Levels   []Level     `json:"levels"`
}

type AppSettings struct {
	Bonuses BonusSettings  `json:"bonuses"`
	Export  ExportSettings `json:"export"`
	Limits  SettingLimit   `json:"limits"`
}

type BonusSettings struct {
	Signup   int64 `json:"signup"`   // NCS Tokens paid once at registration
	Referral int64 `json:"referral"` // NCS Tokens paid per recorded referral
}

type ExportSettings struct {
	LinesPerPage int    `json:"lines_per_page"` // fixed page height for paginated exports
	LineWidth    int    `json:"line_width"`     // characters per line at standard page width
	TargetUrl    string `json:"target_url"`     // document export collaborator
}

type SettingLimit struct {
	RedeemMin int64 `json:"redeem_min"`
	RedeemMax int64 `json:"redeem_max"`
}

var (
	DefaultAppConfig *AppConfig
	CurrentAppConfig *AppConfig
)

func Init() *App {
	loadEnv()
	redisClient := setupRedis()
	db := setupDb()
	asynqClient := setupAsynqClient()
	asynqInspector := setupAsynqInspector()

	DefaultAppConfig = defaultConfig()

	app := &App{
		Rdb: redisClient,
		Db:  db,
		Aqc: asynqClient,
		Aqi: asynqInspector,
	}
	isSet := false
	appConfigRaw, _ := app.Rdb.Get(context.Background(), "app_config").Result()
	if len(appConfigRaw) > 0 {
		err := json.Unmarshal([]byte(appConfigRaw), &CurrentAppConfig)
		if err == nil {
			isSet = true
		}
	}
	if !isSet {
		CurrentAppConfig = DefaultAppConfig
		currentConfig, _ := json.Marshal(DefaultAppConfig)
		app.Rdb.Set(context.Background(), "app_config", currentConfig, 0)
	}
	return app
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Settings: AppSettings{
			Bonuses: BonusSettings{
				Signup:   100,
				Referral: 100,
			},
			Export: ExportSettings{
				LinesPerPage: 48,
				LineWidth:    88,
				TargetUrl:    os.Getenv("EXPORT_TARGET_URL"),
			},
			Limits: SettingLimit{
				RedeemMin: 50,
				RedeemMax: 100000,
			},
		},
		Levels: []Level{
			{
				Name:         "Researcher",
				MinTokens:    0,
				MinReferrals: 0,
				Benefits:     []string{"Proposal generator", "Task catalog access"},
			},
			{
				Name:         "Scholar",
				MinTokens:    1000,
				MinReferrals: 5,
				Benefits:     []string{"Priority analysis queue", "Scholar badge"},
			},
			{
				Name:         "Mentor",
				MinTokens:    5000,
				MinReferrals: 20,
				Benefits:     []string{"Mentor badge", "Extended export limits"},
			},
			{
				Name:         "Editor",
				MinTokens:    15000,
				MinReferrals: 50,
				Benefits:     []string{"Editorial review access", "Editor badge"},
			},
			{
				Name:         "Founder",
				MinTokens:    50000,
				MinReferrals: 100,
				Benefits:     []string{"Founder badge", "All platform services"},
			},
		},
	}
}

// AppWork is the process that consumes the analysis-request queue.
type AppWork struct {
	Rdb *redis.Client
	Db  *gorm.DB
	Aqs *asynq.Server
}

func InitWork() *AppWork {
	loadEnv()
	redisClient := setupRedis()
	db := setupDb()
	asynqServer := setupAsynqServer()

	DefaultAppConfig = defaultConfig()

	app := &AppWork{
		Rdb: redisClient,
		Db:  db,
		Aqs: asynqServer,
	}
	isSet := false
	appConfigRaw, _ := app.Rdb.Get(context.Background(), "app_config").Result()
	if len(appConfigRaw) > 0 {
		err := json.Unmarshal([]byte(appConfigRaw), &CurrentAppConfig)
		if err == nil {
			isSet = true
		}
	}
	if !isSet {
		CurrentAppConfig = DefaultAppConfig
	}
	return app
}

// RefreshConfig reloads the shared config snapshot from Redis. Handlers call
// it before reading limits so an admin update is picked up without restarts.
func RefreshConfig(ctx context.Context, rdb *redis.Client) *AppConfig {
	appConfigRaw, _ := rdb.Get(ctx, "app_config").Result()
	if len(appConfigRaw) > 0 {
		_ = json.Unmarshal([]byte(appConfigRaw), &CurrentAppConfig)
	}
	if CurrentAppConfig == nil {
		CurrentAppConfig = DefaultAppConfig
	}
	return CurrentAppConfig
}

func setupRedis() *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	return redisClient
}

func setupDb() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect to the db")
	}
	err = db.AutoMigrate(
		&User{},
		&Task{},
		&Completion{},
		&LedgerEntry{},
		&Ref{},
	)
	if err != nil {
		panic("failed to run migrations")
	}

	return db
}

func setupAsynqClient() *asynq.Client {
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return asynqClient
}

func setupAsynqInspector() *asynq.Inspector {
	asynqInspector := asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return asynqInspector
}

func setupAsynqServer() *asynq.Server {
	concurency, err := strconv.Atoi(os.Getenv("ANALYSIS_WORKER_SCALE"))
	if err != nil {
		concurency = 10
	}
	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		asynq.Config{
			Concurrency: concurency,
			Queues: map[string]int{
				"analysis": 1,
			},
		},
	)
	return asynqServer
}

func loadEnv() {
	env := os.Getenv("APP_ENV")
	if "" == env {
		env = "development"
	}

	godotenv.Load(".env." + env + ".local")

	if "test" != env {
		godotenv.Load(".env.local")
	}
	godotenv.Load(".env." + env)
	godotenv.Load()
}
