package core

import (
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setenv(t *testing.T, key, value string) {
	orig, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, orig)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestNewConfig(t *testing.T) {
	setenv(t, "ENV", "test")
	setenv(t, "TEST_SERVER_ADDRESS", ":9999")
	setenv(t, "TEST_AUTH_SESSIONDURATION", "2h")
	setenv(t, "TEST_IMPORT_LIVEPREVIEW", "false")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, ":9999", conf.Server.Address)
	assert.Equal(t, 2*time.Hour, conf.Auth.SessionDuration)
	assert.False(t, conf.Import.LivePreview)
	assert.Equal(t, "camcam", conf.Auth.Username)
	assert.Equal(t, int64(5<<20), conf.Import.MaxFileSize)
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cards.csv", want: "cards.csv"},
		{name: "unix path", in: "/home/cam/cards.csv", want: "cards.csv"},
		{name: "windows path", in: `C:\Users\cam\qcm.csv`, want: "qcm.csv"},
		{name: "blank", in: "  ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitValidators(t *testing.T) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	InitValidators(validate, translator)

	type request struct {
		Name string `json:"name" validate:"notblank"`
		File string `json:"file" validate:"required,csvfile"`
	}

	err := TranslateErrors(validate.Struct(request{Name: "  ", File: "notes.pdf"}), translator)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"name": notBlankText,
		"file": csvFileText,
	}, vErr.FieldMap())
	assert.True(t, IsValidationError(errors.Wrap(err, "validating")))

	assert.NoError(t, validate.Struct(request{Name: "cam", File: "QCM.CSV"}))
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "handling")))
	assert.False(t, IsShutdown(errors.New("integrity")))
}
