/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	content := `connection_config:
  type: postgres
  host: db.internal
  port: 5433
  username: app
  password: secret
  dbname: athletes
  sslmode: require
  max_open_conns: 20
  enable_query_log: true
`
	path := filepath.Join(t.TempDir(), "database.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cc := cfg.ConnectionConfig
	if cc.Type != "postgres" || cc.Host != "db.internal" || cc.Port != 5433 {
		t.Fatalf("connection settings not parsed: %+v", cc)
	}
	if cc.DBName != "athletes" || cc.SSLMode != "require" {
		t.Fatalf("database settings not parsed: %+v", cc)
	}
	if cc.MaxOpenConns != 20 {
		t.Fatalf("expected max_open_conns 20, got %d", cc.MaxOpenConns)
	}
	if !cc.EnableQueryLog {
		t.Fatal("expected query log enabled")
	}
	// Unset fields keep their defaults.
	if cc.MaxIdleConns != 10 {
		t.Fatalf("expected default max_idle_conns 10, got %d", cc.MaxIdleConns)
	}
	if cc.SlowQueryTime != 2*time.Second {
		t.Fatalf("expected default slow_query_time 2s, got %v", cc.SlowQueryTime)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
