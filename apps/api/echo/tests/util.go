package tests

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/revisioncam/apps/api/echo"
	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
	"github.com/trezcool/revisioncam/core/study"
	"github.com/trezcool/revisioncam/services/logger"
	"github.com/trezcool/revisioncam/storage/inmem"
	"github.com/trezcool/revisioncam/tests"
)

const (
	testUsername    = "camcam"
	testPassword    = "s3cr3t-revision"
	sessionDuration = time.Hour
	maxFileSize     = 1 << 10
)

var (
	errMissingToken   = httpErr{Error: "user not authenticated"}
	errExpiredSession = httpErr{Error: "session expired"}
)

type fixture struct {
	app   Server
	clock *testutil.FakeClock
}

// inOrder makes quiz shuffles keep the file order.
type inOrder struct{}

func (inOrder) Intn(n int) int { return n - 1 }

func setup(t *testing.T) fixture {
	clock := testutil.NewFakeClock()
	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
		Import:   core.ImportConfig{MaxFileSize: maxFileSize, LivePreview: true},
	}

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	policy := auth.NewCredentialPolicy(testUsername, testutil.HashPassword(t, testPassword))
	studySvc := study.NewService(
		inmem.NewWorkspaceRepository(inmem.Open()),
		study.Options{LivePreview: conf.Import.LivePreview, MaxFileSize: conf.Import.MaxFileSize, Source: inOrder{}},
		clock,
	)

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   auth.NewManager(policy, clock, sessionDuration),
		Tokens:     auth.NewTokenCodec("test-secret", "RevisionCam", clock),
		StudySvc:   studySvc,
		Validate:   validate,
		Translator: translator,
	})
	return fixture{app: app, clock: clock}
}

// login returns a session token for the configured user.
func (f fixture) login(t *testing.T) string {
	req, rec := newRequest(http.MethodPost, "/v1/auth/login", marchallObj(t, LoginRequest{Username: testUsername, Password: testPassword}))
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// do serves a request and decodes the JSON response into out, when given. out is zeroed first.
func (f fixture) do(t *testing.T, req *http.Request, rec *httptest.ResponseRecorder, wantCode int, out interface{}) {
	f.app.ServeHTTP(rec, req)
	require.Equal(t, wantCode, rec.Code, rec.Body.String())
	if out != nil {
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest posts a multipart form; an empty fileName sends the form without file.
func newUploadRequest(t *testing.T, path, token, fileName, content string) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
