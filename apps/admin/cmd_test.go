package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-landing/core/flowdemo"
)

func setup() (*commandLine, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandLine{out: &out}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "content help", args: []string{"content", "-h"}, wantErr: errHelp},
		{name: "content unknown flag", args: []string{"content", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
			if tt.wantErr == errHelp && tt.name != "content help" {
				assert.Contains(t, out.String(), "Usage:")
			}
		})
	}
}

func Test_commandLine_hashPassword(t *testing.T) {
	defer func(f func(int) ([]byte, error)) { readPasswordFunc = f }(readPasswordFunc)

	t.Run("empty password", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
		cli, _ := setup()
		assert.Equal(t, errHelp, cli.run([]string{"admin", "hashpassword"}))
	})

	t.Run("read failure", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, errors.New("not a terminal") }
		cli, _ := setup()
		assert.EqualError(t, cli.run([]string{"admin", "hashpassword"}), "not a terminal")
	})

	t.Run("hash", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("lol-pwd"), nil }
		cli, out := setup()
		require.NoError(t, cli.run([]string{"admin", "hashpassword"}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		hash := lines[len(lines)-1]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("lol-pwd")))
	})
}

func Test_commandLine_content(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		cli, out := setup()
		require.NoError(t, cli.run([]string{"admin", "content"}))
		assert.Equal(t, "Student: 5 steps\nTeacher: 5 steps\nParent: 5 steps\nAdmin: 5 steps\n", out.String())
	})

	t.Run("dump then load", func(t *testing.T) {
		cli, out := setup()
		require.NoError(t, cli.run([]string{"admin", "content", "-dump"}))

		file := filepath.Join(t.TempDir(), "flow.yaml")
		require.NoError(t, os.WriteFile(file, out.Bytes(), 0o600))

		cli, out = setup()
		require.NoError(t, cli.run([]string{"admin", "content", "-file", file}))
		assert.Contains(t, out.String(), "Teacher: 5 steps")

		loaded, err := flowdemo.LoadContentFile(file)
		require.NoError(t, err)
		assert.Equal(t, flowdemo.DefaultContent().Personas(), loaded.Personas())
	})

	t.Run("invalid file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "flow.yaml")
		require.NoError(t, os.WriteFile(file, []byte("personas:\n  alien: []\n"), 0o600))

		cli, _ := setup()
		err := cli.run([]string{"admin", "content", "-file", file})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		cli, _ := setup()
		assert.Error(t, cli.run([]string{"admin", "content", "-file", filepath.Join(t.TempDir(), "nope.yaml")}))
	})
}
