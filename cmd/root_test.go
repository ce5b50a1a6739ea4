package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCmd(t *testing.T, root *cobra.Command, args ...string) *cobra.Command {
	t.Helper()

	cmd, _, err := root.Find(args)
	require.NoError(t, err)
	return cmd
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		args []string
		use  string
	}{
		{args: []string{"serve"}, use: "serve"},
		{args: []string{"migrate"}, use: "migrate"},
		{args: []string{"migrate", "up"}, use: "up"},
		{args: []string{"migrate", "down"}, use: "down"},
		{args: []string{"migrate", "version"}, use: "version"},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, findCmd(t, root, tt.args...).Use)
		})
	}
}

func TestRootCmd_ConfigFlagIsInherited(t *testing.T) {
	root := NewRootCmd()

	up := findCmd(t, root, "migrate", "up")
	assert.NotNil(t, up.InheritedFlags().Lookup(configFlag))
}

func TestRootCmd_Version(t *testing.T) {
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), version)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"unexpected"})

	assert.Error(t, root.Execute())
}

func TestRecoverMust(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		panicV  any
		wantErr string
		wantIs  error
	}{
		{name: "error value", panicV: cause, wantErr: "serve: connection refused", wantIs: cause},
		{name: "other value", panicV: "boom", wantErr: "serve: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func() (err error) {
				defer recoverMust("serve", &err)
				panic(tt.panicV)
			}

			err := run()
			require.EqualError(t, err, tt.wantErr)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}

	t.Run("no panic", func(t *testing.T) {
		run := func() (err error) {
			defer recoverMust("serve", &err)
			return nil
		}

		assert.NoError(t, run())
	})
}

func TestServeCmd_UnreachableDatabaseReturnsError(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("POSTGRES_HOST", "127.0.0.1")
	t.Setenv("POSTGRES_PORT", "1")
	t.Setenv("POSTGRES_USERNAME", "taskflow")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DATABASE", "taskflow")
	t.Setenv("POSTGRES_PING_TIMEOUT", "1s")
	t.Setenv("POSTGRES_CONNECT_TIMEOUT", "1s")
	t.Setenv("JWT_SIGNING_KEY", "signing-key")

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"serve"})

	assert.NotPanics(t, func() {
		assert.Error(t, root.Execute())
	})
}
