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

package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogConfigAdjust(t *testing.T) {
	var cfg LogConfig
	cfg.adjust()
	require.Equal(t, "info", cfg.Level)
	require.Equal(t, "console", cfg.Format)
	require.Equal(t, 512, cfg.MaxSize)
}

func TestGetGlobalLogger(t *testing.T) {
	require.NotNil(t, GetGlobalLogger())
}

func TestSetupGlobalLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordmap.log")
	SetupGlobalLogger(LogConfig{Level: "debug", Format: "json", Filename: path})
	defer SetupGlobalLogger(LogConfig{})

	Info("file sink test", zap.Int("n", 1))
	Debugf("formatted %d", 2)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))
}

func TestSetupGlobalLoggerLevel(t *testing.T) {
	SetupGlobalLogger(LogConfig{Level: "error"})
	defer SetupGlobalLogger(LogConfig{})
	require.False(t, GetGlobalLogger().Core().Enabled(zap.InfoLevel))
	require.True(t, GetGlobalLogger().Core().Enabled(zap.ErrorLevel))
}
