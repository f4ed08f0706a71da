package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/revisioncam/core"
)

func setup() (*commandLine, *bytes.Buffer) {
	var out bytes.Buffer
	conf := &core.Config{
		Env: "TEST",
		Auth: core.AuthConfig{
			Username:        "camcam",
			SessionDuration: 24 * time.Hour,
		},
		Import: core.ImportConfig{MaxFileSize: 5 << 20, LivePreview: true},
	}
	return &commandLine{conf: conf, out: &out}, &out
}

// mockPasswords makes readPasswordFunc answer with pwds, in order.
func mockPasswords(t *testing.T, pwds ...string) {
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })

	readPasswordFunc = func(int) ([]byte, error) {
		if len(pwds) == 0 {
			return nil, errors.New("no more input")
		}
		pwd := pwds[0]
		pwds = pwds[1:]
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwds       []string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "hashpassword: empty password", args: []string{"hashpassword"}, pwds: []string{""}, wantErr: errHelp},
		{name: "hashpassword: mismatch", args: []string{"hashpassword"}, pwds: []string{"one", "two"}, wantErr: errPasswordMismatch},
		{name: "hashpassword: no confirmation", args: []string{"hashpassword"}, pwds: []string{"one"}, wantErrStr: "no more input"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup()
			mockPasswords(t, tt.pwds...)

			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_hashPassword(t *testing.T) {
	cli, out := setup()
	mockPasswords(t, "s3cr3t", "s3cr3t")

	origHash := hashPasswordFunc
	t.Cleanup(func() { hashPasswordFunc = origHash })
	hashPasswordFunc = func(pwd string) (string, error) { // keep the test fast
		hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
		return string(hash), err
	}

	if !assert.NoError(t, cli.run([]string{"admin", "hashpassword"})) {
		return
	}

	var hash string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "$2") {
			hash = line
		}
	}
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cr3t")))
	assert.Contains(t, out.String(), `set it as TEST_AUTH_PASSWORDHASH to enable logins for "camcam"`)
}

func Test_commandLine_showConfig(t *testing.T) {
	cli, out := setup()
	assert.NoError(t, cli.run([]string{"admin", "showconfig"}))

	want := "env: TEST\n" +
		"username: camcam\n" +
		"login enabled: false\n" +
		"session duration: 24h0m0s\n" +
		"max file size: 5242880 bytes\n" +
		"live preview: true\n"
	assert.Equal(t, want, out.String())
}
