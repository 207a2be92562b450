package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
environment: test
assets:
  bitcoin: BTCUSDT
  ethereum: ETHUSDT
weights:
  sentiment: 0.20
  technical: 0.40
  cycle: 0.25
  social: 0.05
  overlay: 0.10
`

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Weights.Technical != 0.40 {
		t.Fatalf("unexpected technical weight %v", c.Weights.Technical)
	}
	if c.Output.Backend != "file" {
		t.Fatalf("expected file backend default, got %s", c.Output.Backend)
	}
	if c.Assets["bitcoin"] != "BTCUSDT" {
		t.Fatalf("asset mapping lost")
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	bad := `
environment: test
assets:
  bitcoin: BTCUSDT
weights:
  sentiment: 0.50
  technical: 0.50
  cycle: 0.50
  social: 0.50
  overlay: 0.10
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("weights not summing to 1 must fail load")
	}
}

func TestLoadRejectsNegativeWeight(t *testing.T) {
	bad := `
environment: test
assets:
  bitcoin: BTCUSDT
weights:
  sentiment: -0.20
  technical: 0.80
  cycle: 0.30
  social: 0.10
  overlay: 0.10
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("negative weight must fail load")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	bad := validYAML + `
output:
  backend: postgres
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("unknown backend must fail load")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	bad := validYAML + `
output:
  backend: kafka
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("kafka backend without brokers must fail load")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("OUTPUT_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HISTORY_DAYS", "not-a-number")
	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Output.Backend != "kafka" {
		t.Fatalf("env override lost, backend %s", c.Output.Backend)
	}
	if len(c.Kafka.Brokers) != 2 {
		t.Fatalf("broker list = %v", c.Kafka.Brokers)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("port override lost, got %d", c.Server.Port)
	}
	if c.CoinGecko.HistoryDays != 365 {
		t.Fatalf("invalid numeric env must keep default, got %d", c.CoinGecko.HistoryDays)
	}
}
