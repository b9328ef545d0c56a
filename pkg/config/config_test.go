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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testConfig = `
num-keys = 1000
operations = 5000
read-ratio = 0.6
remove-ratio = 0.2
distribution = "zipf"
zipf-theta = 1.3
shards = 2

[log]
level = "debug"
format = "json"
`

func TestLoadBenchConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))

	var cfg BenchConfig
	require.NoError(t, LoadBenchConfigFromFile(path, &cfg))
	require.Equal(t, uint64(1000), cfg.NumKeys)
	require.Equal(t, uint64(5000), cfg.Operations)
	require.Equal(t, 0.6, cfg.ReadRatio)
	require.Equal(t, 0.2, cfg.RemoveRatio)
	require.Equal(t, DistributionZipf, cfg.Distribution)
	require.Equal(t, 1.3, cfg.ZipfTheta)
	require.Equal(t, 2, cfg.Shards)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)

	cfg.Adjust()
	require.NoError(t, cfg.Validate())
}

func TestLoadBenchConfigMissingFile(t *testing.T) {
	var cfg BenchConfig
	err := LoadBenchConfigFromFile(filepath.Join(t.TempDir(), "nope.toml"), &cfg)
	require.Error(t, err)
}

func TestBenchConfigDefaults(t *testing.T) {
	var cfg BenchConfig
	cfg.Adjust()
	require.Equal(t, uint64(1<<20), cfg.NumKeys)
	require.Equal(t, uint64(1<<22), cfg.Operations)
	require.Equal(t, 0.8, cfg.ReadRatio)
	require.Equal(t, 0.1, cfg.RemoveRatio)
	require.Equal(t, DistributionUniform, cfg.Distribution)
	require.Equal(t, 1, cfg.Shards)
	require.NoError(t, cfg.Validate())
}

func TestBenchConfigValidate(t *testing.T) {
	newValid := func() BenchConfig {
		var cfg BenchConfig
		cfg.Adjust()
		return cfg
	}

	cfg := newValid()
	cfg.ReadRatio = 0.9
	cfg.RemoveRatio = 0.3
	require.Error(t, cfg.Validate())

	cfg = newValid()
	cfg.Distribution = "pareto"
	require.Error(t, cfg.Validate())

	cfg = newValid()
	cfg.Distribution = DistributionZipf
	cfg.ZipfTheta = 0.5
	require.Error(t, cfg.Validate())

	cfg = newValid()
	cfg.Shards = -1
	require.Error(t, cfg.Validate())

	cfg = newValid()
	cfg.MaxLoadFactor = 1.5
	require.Error(t, cfg.Validate())
}
