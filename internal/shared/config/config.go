package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/ini.v1"
	"wstester/internal/shared/types"
)

const (
	DefaultURL              = "ws://localhost:3000"
	DefaultPreset           = "hello"
	DefaultHandshakeTimeout = 15 * time.Second
	DefaultLogLevel         = "info"
)

// Default returns the configuration used when no file, env or flag says otherwise.
func Default() *types.Config {
	return &types.Config{
		ProbeConf: types.ProbeConf{
			URL:              DefaultURL,
			Preset:           DefaultPreset,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		LogConf: types.LogConf{
			Level: DefaultLogLevel,
		},
	}
}

// LoadIni 加载 wstester.ini 并覆盖 cfg 中已有的默认值。
// 文件不存在时保留默认值，不视为错误。
func LoadIni(cfg *types.Config, fileName string) error {
	if fileName != "" {
		if _, err := os.Stat(fileName); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		} else {
			iniFile, err := ini.Load(fileName)
			if err != nil {
				return err
			}
			if err := iniFile.MapTo(cfg); err != nil {
				return err
			}
		}
	}
	overrideFromEnvString(&cfg.ProbeConf.URL, "WSTESTER_URL")
	overrideFromEnvString(&cfg.ProbeConf.Payload, "WSTESTER_PAYLOAD")
	overrideFromEnvDuration(&cfg.ProbeConf.HandshakeTimeout, "WSTESTER_HANDSHAKE_TIMEOUT")
	return nil
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

func overrideFromEnvDuration(target *time.Duration, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if d, err := time.ParseDuration(envValue); err == nil {
			*target = d
		}
	}
}
