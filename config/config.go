package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr  string `default:":8080"`
	DatabaseURL string

	FirestoreProject string `default:"moodboard-dev"`

	SpotifyID          string
	SpotifySecret      string
	SpotifyRedirectURL string `default:"http://localhost:8080/auth/spotify/callback"`

	SessionSecret string
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("moodboard", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
