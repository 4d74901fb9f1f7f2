package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress        string
		flightsAddress    string
		ticketsAddress    string
		privilegesAddress string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:        "localhost:8080",
				flightsAddress:    "http://localhost:8060",
				ticketsAddress:    "http://localhost:8070",
				privilegesAddress: "http://localhost:8050",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":        "localhost:9999",
				"FLIGHTS_ADDRESS":    "http://flights:8060",
				"TICKETS_ADDRESS":    "http://tickets:8070",
				"PRIVILEGES_ADDRESS": "http://privileges:8050",
			},
			flags: []string{},
			want: want{
				runAddress:        "localhost:9999",
				flightsAddress:    "http://flights:8060",
				ticketsAddress:    "http://tickets:8070",
				privilegesAddress: "http://privileges:8050",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-f", "http://flag-flights:1",
				"-t", "http://flag-tickets:2",
				"-p", "http://flag-privileges:3",
			},
			want: want{
				runAddress:        "localhost:7777",
				flightsAddress:    "http://flag-flights:1",
				ticketsAddress:    "http://flag-tickets:2",
				privilegesAddress: "http://flag-privileges:3",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"FLIGHTS_ADDRESS": "http://env-flights:1",
			},
			flags: []string{
				"-f", "http://flag-flights:1",
			},
			want: want{
				runAddress:        "localhost:8080",
				flightsAddress:    "http://env-flights:1",
				ticketsAddress:    "http://localhost:8070",
				privilegesAddress: "http://localhost:8050",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.flightsAddress, cfg.FlightsAddress)
			assert.Equal(t, tt.want.ticketsAddress, cfg.TicketsAddress)
			assert.Equal(t, tt.want.privilegesAddress, cfg.PrivilegesAddress)
		})
	}
}
