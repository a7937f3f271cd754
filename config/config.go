package config

import "github.com/spf13/viper"

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	HTTPPort      string `mapstructure:"HTTP_PORT"`
	ProcessorPort string `mapstructure:"PROCESSOR_PORT"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	AccessSecret    string `mapstructure:"ACCESS_SECRET"`
	RefreshSecret   string `mapstructure:"REFRESH_SECRET"`
	AccessTTLMin    int    `mapstructure:"ACCESS_TTL_MIN"`
	RefreshTTLHours int    `mapstructure:"REFRESH_TTL_HOURS"`

	CSVInputFolder     string `mapstructure:"CSV_INPUT_FOLDER"`
	JSONInputFolder    string `mapstructure:"JSON_INPUT_FOLDER"`
	ProcessedFolder    string `mapstructure:"PROCESSED_FOLDER"`
	ErrorFolder        string `mapstructure:"ERROR_FOLDER"`
	CSVSkipLimit       int    `mapstructure:"CSV_SKIP_LIMIT"`
	ChunkSize          int    `mapstructure:"CHUNK_SIZE"`
	ProcessingEnabled  bool   `mapstructure:"PROCESSING_ENABLED"`
	IngestIntervalSec  int    `mapstructure:"INGEST_INTERVAL_SEC"`
	ProcessIntervalSec int    `mapstructure:"PROCESS_INTERVAL_SEC"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("HTTP_PORT")
	viper.BindEnv("PROCESSOR_PORT")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("ACCESS_SECRET")
	viper.BindEnv("REFRESH_SECRET")
	viper.BindEnv("ACCESS_TTL_MIN")
	viper.BindEnv("REFRESH_TTL_HOURS")
	viper.BindEnv("CSV_INPUT_FOLDER")
	viper.BindEnv("JSON_INPUT_FOLDER")
	viper.BindEnv("PROCESSED_FOLDER")
	viper.BindEnv("ERROR_FOLDER")
	viper.BindEnv("CSV_SKIP_LIMIT")
	viper.BindEnv("CHUNK_SIZE")
	viper.BindEnv("PROCESSING_ENABLED")
	viper.BindEnv("INGEST_INTERVAL_SEC")
	viper.BindEnv("PROCESS_INTERVAL_SEC")

	viper.SetDefault("ACCESS_TTL_MIN", 15)
	viper.SetDefault("REFRESH_TTL_HOURS", 168)
	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("PROCESSOR_PORT", ":8081")
	viper.SetDefault("CSV_INPUT_FOLDER", "input")
	viper.SetDefault("JSON_INPUT_FOLDER", "output")
	viper.SetDefault("PROCESSED_FOLDER", "processed")
	viper.SetDefault("ERROR_FOLDER", "error")
	viper.SetDefault("CSV_SKIP_LIMIT", 50)
	viper.SetDefault("CHUNK_SIZE", 100)
	viper.SetDefault("PROCESSING_ENABLED", true)
	viper.SetDefault("INGEST_INTERVAL_SEC", 30)
	viper.SetDefault("PROCESS_INTERVAL_SEC", 300)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}
	err = viper.Unmarshal(&config)
	return
}
