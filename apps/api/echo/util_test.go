package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-landing/core"
	"github.com/trezcool/masomo-landing/core/flowdemo"
	"github.com/trezcool/masomo-landing/core/lead"
	"github.com/trezcool/masomo-landing/services/email"
	"github.com/trezcool/masomo-landing/storage/database/inmem"
	"github.com/trezcool/masomo-landing/tests"
)

const adminPassword = "lol-pwd"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	srv      *Server
	conf     *core.Config
	content  *flowdemo.Catalog
	registry *flowdemo.Registry
	sched    *flowdemo.ManualScheduler
	leadSvc  *lead.Service
	mailSvc  *emailsvc.ConsoleServiceMock
	logger   *testutil.Logger
}

func setup(t *testing.T) testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	conf := &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Masomo",
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
		Lead:  core.LeadConfig{SalesEmail: mail.Address{Name: "Sales", Address: "sales@test.cd"}},
		Admin: core.AdminConfig{Username: "admin", PasswordHash: string(hash)},
	}

	// websocket handlers may log after the test returns
	logger := testutil.NewMemLogger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	flowdemo.RegisterValidators(validate, translator)
	core.ParseEmailTemplates(true, logger)

	content := flowdemo.DefaultContent()
	sched := flowdemo.NewManualScheduler()
	registry, err := flowdemo.NewRegistry(content, flowdemo.Options{Scheduler: sched}, time.Minute, logger)
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	leadSvc, err := lead.NewService(inmemdb.NewLeadRepository(inmemdb.Open()), mailSvc, validate, logger, conf)
	require.NoError(t, err)

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Content:    content,
		Registry:   registry,
		LeadSvc:    leadSvc,
		Validate:   validate,
		Translator: translator,
	})
	t.Cleanup(func() {
		registry.Close()
		_ = srv.Close()
	})

	return testApp{
		srv:      srv,
		conf:     conf,
		content:  content,
		registry: registry,
		sched:    sched,
		leadSvc:  leadSvc,
		mailSvc:  mailSvc,
		logger:   logger,
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

func (app testApp) getToken(t *testing.T, claims *Claims) string {
	token, err := app.srv.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall(%s) failed: %v", rec.Body.String(), err)
	}
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
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
