package main

import "time"

type Config struct {
	Host           string        `env:"HOST,default=localhost"`
	Port           int           `env:"PORT,default=8080"`
	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	SecretKey      string        `env:"CHAT_SECRET_KEY"`
	TokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,default=1h"`
}
