package config

import "os"

type Config struct {
	SlackToken         string
	SlackSigningSecret string
	Port               string
	MySQLDSN           string
	RedisURL           string
}

func Load() Config {
	return Config{
		SlackToken:         os.Getenv("SLACK_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		Port:               getenv("PORT", "3000"),
		MySQLDSN:           getenv("MYSQL_DSN", "dinopoll:dinopoll@tcp(127.0.0.1:3306)/dinopoll?parseTime=true"),
		RedisURL:           getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
