package bootstrap

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	Storage        string `mapstructure:"STORAGE"`
	GrpcPort       string `mapstructure:"GRPC_PORT"`
	RedisUrl       string `mapstructure:"REDIS_URL"`
	MongoUri       string `mapstructure:"MONGO_URI"`
	MongoDatabase  string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors    bool   `mapstructure:"LOCAL_CORS"`
	BoardSize      int    `mapstructure:"BOARD_SIZE"`
	KoRule         string `mapstructure:"KO_RULE"`
	ZobristSeed    int64  `mapstructure:"ZOBRIST_SEED"`
	RecordTTLHours int    `mapstructure:"RECORD_TTL_HOURS"`
	PageLimitGames int    `mapstructure:"PAGE_LIMIT_GAMES"`
}

var defaults = map[string]any{
	"SERVER_PORT":      "8080",
	"STORAGE":          "redis",
	"GRPC_PORT":        "9090",
	"REDIS_URL":        "localhost:6379",
	"MONGO_URI":        "mongodb://localhost:27017",
	"MONGO_DATABASE":   "goban_rules",
	"LOCAL_CORS":       false,
	"BOARD_SIZE":       19,
	"KO_RULE":          "simple",
	"ZOBRIST_SEED":     0x5eed_60ba,
	"RECORD_TTL_HOURS": 72,
	"PAGE_LIMIT_GAMES": 20,
}

// Setup reads cfgPath when it is not empty. Environment variables win
// over the file, the file wins over the defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		err := v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
