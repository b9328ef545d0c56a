// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the wordmap-bench driver configuration.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/apribadi/wordmap/pkg/common/wmerr"
	"github.com/apribadi/wordmap/pkg/logutil"
)

const (
	DistributionUniform = "uniform"
	DistributionZipf    = "zipf"
)

// BenchConfig describes a wordmap-bench run.
type BenchConfig struct {
	// NumKeys is the number of distinct keys preloaded into each shard.
	NumKeys uint64 `toml:"num-keys"`
	// Operations is the number of mixed operations each shard runs after
	// the preload phase.
	Operations uint64 `toml:"operations"`
	// ReadRatio is the fraction of mixed operations that are lookups.
	ReadRatio float64 `toml:"read-ratio"`
	// RemoveRatio is the fraction of mixed operations that are removals;
	// the remainder are inserts.
	RemoveRatio float64 `toml:"remove-ratio"`
	// Distribution selects the key distribution: uniform or zipf.
	Distribution string `toml:"distribution"`
	// ZipfTheta is the zipf skew parameter, must be > 1.
	ZipfTheta float64 `toml:"zipf-theta"`
	// Shards is the number of independent tables, each driven by its own
	// goroutine.
	Shards int `toml:"shards"`
	// InitialCapacity is passed through to table construction.
	InitialCapacity uint64 `toml:"initial-capacity"`
	// MaxLoadFactor is passed through to table construction; 0 keeps the
	// table default.
	MaxLoadFactor float64 `toml:"max-load-factor"`

	Log logutil.LogConfig `toml:"log"`
}

// LoadBenchConfigFromFile decodes the TOML file at path into cfg.
func LoadBenchConfigFromFile(path string, cfg *BenchConfig) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return wmerr.NewBadConfig("%s: %s", path, err)
	}
	return nil
}

// Adjust fills in defaults for unset fields.
func (cfg *BenchConfig) Adjust() {
	if cfg.NumKeys == 0 {
		cfg.NumKeys = 1 << 20
	}
	if cfg.Operations == 0 {
		cfg.Operations = 1 << 22
	}
	if cfg.ReadRatio == 0 && cfg.RemoveRatio == 0 {
		cfg.ReadRatio = 0.8
		cfg.RemoveRatio = 0.1
	}
	if cfg.Distribution == "" {
		cfg.Distribution = DistributionUniform
	}
	if cfg.ZipfTheta == 0 {
		cfg.ZipfTheta = 1.1
	}
	if cfg.Shards == 0 {
		cfg.Shards = 1
	}
}

// Validate checks the configuration after defaults are applied.
func (cfg *BenchConfig) Validate() error {
	if cfg.ReadRatio < 0 || cfg.RemoveRatio < 0 || cfg.ReadRatio+cfg.RemoveRatio > 1 {
		return wmerr.NewInvalidArg("read-ratio/remove-ratio", cfg.ReadRatio)
	}
	if cfg.Distribution != DistributionUniform && cfg.Distribution != DistributionZipf {
		return wmerr.NewInvalidArg("distribution", cfg.Distribution)
	}
	if cfg.Distribution == DistributionZipf && cfg.ZipfTheta <= 1 {
		return wmerr.NewInvalidArg("zipf-theta", cfg.ZipfTheta)
	}
	if cfg.Shards < 1 {
		return wmerr.NewInvalidArg("shards", cfg.Shards)
	}
	if cfg.MaxLoadFactor < 0 || cfg.MaxLoadFactor >= 1 {
		return wmerr.NewInvalidArg("max-load-factor", cfg.MaxLoadFactor)
	}
	return nil
}
