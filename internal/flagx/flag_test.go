package flagx

import (
	"flag"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	server := []string{"-a", "-d", "-s", "--secret"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate values", []string{"-a", ":9090", "-o", "otel:4318", "-d", "postgres://db"}, server,
			[]string{"-a", ":9090", "-d", "postgres://db"}},
		{"equals form", []string{"--secret=0123456789abcdef", "-k=12"}, server,
			[]string{"--secret=0123456789abcdef"}},
		{"equals value starting with dash", []string{"-s=--not-a-flag"}, server,
			[]string{"-s=--not-a-flag"}},
		{"missing value at end", []string{"-d"}, server, []string{"-d"}},
		{"dash token is never a value", []string{"-s", "-a", ":80"}, server,
			[]string{"-s", "-a", ":80"}},
		{"repeats kept in order", []string{"-a", ":1", "-a", ":2"}, server,
			[]string{"-a", ":1", "-a", ":2"}},
		{"positional and unknown dropped", []string{"serve", "-x", "1", "--y=2"}, server,
			[]string{}},
		{"empty", nil, server, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs(%q) = %#v, want %#v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseKnown(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("a", "def", "")
	level := fs.String("l", "info", "")

	err := ParseKnown(fs, []string{"-x", "1", "-a", "host:1", "--l=debug", "-c", "cfg.json"})
	require.NoError(t, err)
	assert.Equal(t, "host:1", *addr)
	assert.Equal(t, "debug", *level)
}

func TestParseKnown_BadValue(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Int("k", 10, "")

	assert.Error(t, ParseKnown(fs, []string{"-k", "ten"}))
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short -c with value", []string{"-c", "/path/short.json"}, "/path/short.json"},
		{"long -config with value", []string{"-config", "/path/long.json"}, "/path/long.json"},
		{"double dash with equals", []string{"--config=/path/eq.json"}, "/path/eq.json"},
		{"unknown flags are ignored", []string{"-x", "1", "-y", "2"}, ""},
		{"last wins", []string{"-c", "/path/1.json", "-config", "/path/2.json"}, "/path/2.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfigFile(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFile_MissingValue(t *testing.T) {
	_, err := ConfigFile([]string{"-c"})
	assert.Error(t, err)
}
