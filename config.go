// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"os"

	"log/slog"

	"gopkg.in/yaml.v3"
)

// Note: struct fields must be public in order for unmarshal to
// correctly populate the data.
type fileConfig struct {
	Client struct {
		// Options contains configurable options for the client.
		Options `yaml:"options"`
	} `yaml:"client"`
}

// OpenConfigFile reads client options from a yaml file.
func OpenConfigFile(p string) (*Options, error) {
	if p == "" {
		slog.Default().Debug("no file path provided")
		return nil, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	config := new(fileConfig)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return &config.Client.Options, nil
}
