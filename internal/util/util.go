package util

import (
	"github.com/berfenger/lovense2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Lovense: config.LovenseConfig{
			UserID:                 "test_user",
			UserName:               "Test User",
			CallbackURL:            "https://bridge.example/api/lovense/callback",
			RefreshIntervalSeconds: 1,
			RequestTimeoutSeconds:  2,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "lovense2mqtt",
		},
		Port: 8080,
	}
}
