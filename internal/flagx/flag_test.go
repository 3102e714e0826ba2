package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	server := []string{"-a", "-d", "-m"}
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate values", []string{"-a", ":50051", "-x", "1", "-d", "postgres://db"}, server, []string{"-a", ":50051", "-d", "postgres://db"}},
		{"equals form", []string{"-m=admin@city.test", "-o=http://img"}, server, []string{"-m=admin@city.test"}},
		{"double dash matches single", []string{"--a", ":9000", "--d=dsn"}, server, []string{"--a", ":9000", "--d=dsn"}},
		{"allowed given with double dash", []string{"-config", "c.json"}, []string{"--config"}, []string{"-config", "c.json"}},
		{"flag without value at end", []string{"-a"}, server, []string{"-a"}},
		{"next dash token is not a value", []string{"-a", "-d", "dsn"}, server, []string{"-a", "-d", "dsn"}},
		{"repeated flag kept in order", []string{"-a", "one", "-a", "two"}, server, []string{"-a", "one", "-a", "two"}},
		{"positional and bare dashes ignored", []string{"sync", "-", "--", "pending"}, server, []string{}},
		{"empty", nil, server, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	assert.Equal(t, "/etc/citycare/short.json", ConfigFile([]string{"-c", "/etc/citycare/short.json"}))
	assert.Equal(t, "/etc/citycare/long.json", ConfigFile([]string{"-a", ":1", "-config", "/etc/citycare/long.json"}))
	assert.Equal(t, "eq.json", ConfigFile([]string{"--config=eq.json"}))
	assert.Equal(t, "second.json", ConfigFile([]string{"-c", "first.json", "-c", "second.json"}))
	assert.Empty(t, ConfigFile([]string{"-a", ":1"}))
}

func TestConfigFile_EnvFallback(t *testing.T) {
	t.Setenv(ConfigEnv, "/run/citycare.json")

	assert.Equal(t, "/run/citycare.json", ConfigFile(nil))
	assert.Equal(t, "flag.json", ConfigFile([]string{"-c", "flag.json"}))
}
