package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/popfiled/popfiled/config"
)

func TestApplyPositionalArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		addrFlagSet bool
		flagAddr    string
		wantAddr    string
		wantFiles   []string
	}{
		{
			name:      "positional address and files",
			args:      []string{"1100", "a.txt", "b.txt"},
			wantAddr:  "1100",
			wantFiles: []string{"a.txt", "b.txt"},
		},
		{
			name:        "explicit -addr flag wins over the positional address",
			args:        []string{"1100", "a.txt"},
			addrFlagSet: true,
			flagAddr:    "localhost:2200",
			wantAddr:    "localhost:2200",
			wantFiles:   []string{"a.txt"},
		},
		{
			name:     "no positional args leaves config untouched",
			args:     nil,
			flagAddr: "localhost:2200",
			wantAddr: "localhost:2200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Server.Addr = tt.flagAddr

			applyPositionalArgs(&cfg, tt.args, tt.addrFlagSet)

			assert.Equal(t, tt.wantAddr, cfg.Server.Addr)
			assert.Equal(t, tt.wantFiles, cfg.Messages)
		})
	}
}
