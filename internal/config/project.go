package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/jpegd/jdeploy/internal/domain/config"
)

// ProjectFileName marks the project root
const ProjectFileName = "jdeploy.toml"

// loadProjectConfig loads .env files and parses jdeploy.toml, expanding ${VAR}
// references in every string value
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	// .env.local wins over .env, and both lose to the real environment
	for _, envFile := range []string{".env.local", ".env"} {
		path := filepath.Join(projectRoot, envFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("failed to load env file", "path", path, "error", err)
		}
	}

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, ProjectFileName)
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found in %s", ProjectFileName, projectRoot)
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown keys in project file", "file", ProjectFileName, "keys", fmt.Sprint(undecoded))
	}

	cfg.Defaults()
	expandEnv(cfg)
	return cfg, nil
}

func expandEnv(cfg *config.ProjectConfig) {
	cfg.Params.DAO = os.ExpandEnv(cfg.Params.DAO)
	expandMap(cfg.Params.Tokens)
	expandMap(cfg.Params.Values)

	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.Sender = os.ExpandEnv(network.Sender)
		cfg.Networks[name] = network
	}
	for name, sender := range cfg.Senders {
		sender.PrivateKey = os.ExpandEnv(sender.PrivateKey)
		sender.Keystore = os.ExpandEnv(sender.Keystore)
		sender.Password = os.ExpandEnv(sender.Password)
		sender.Address = os.ExpandEnv(sender.Address)
		cfg.Senders[name] = sender
	}
	for name, explorer := range cfg.Explorer {
		explorer.URL = os.ExpandEnv(explorer.URL)
		explorer.APIKey = os.ExpandEnv(explorer.APIKey)
		cfg.Explorer[name] = explorer
	}
}

func expandMap(m map[string]string) {
	for k, v := range m {
		m[k] = os.ExpandEnv(v)
	}
}
