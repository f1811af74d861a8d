package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/madrasahbd/natija/apps/api/echo"
	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/result"
	"github.com/madrasahbd/natija/core/user"
	inmemdb "github.com/madrasahbd/natija/storage/database/inmem"
	"github.com/madrasahbd/natija/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}

	admin   = user.User{ID: "1", Username: "principal", Roles: []string{user.RoleAdminPrincipal}}
	teacher = user.User{ID: "2", Username: "teacher", Roles: []string{user.RoleTeacher}}
	student = user.User{ID: "3", Username: "student", Roles: []string{user.RoleStudent}}
)

type fixture struct {
	app    *echoapi.Server
	conf   *core.Config
	logger *testutil.Logger
	db     *inmemdb.DB
	svc    result.Service
	class  testutil.Class
}

// setup serves a seeded class; wrap, when given, decorates the result service.
func setup(t *testing.T, wrap ...func(result.Service) result.Service) fixture {
	f := fixture{
		conf:   testutil.Config(),
		logger: new(testutil.Logger),
		db:     inmemdb.Open(),
	}
	f.class = testutil.SeedClass(t, f.db)
	f.svc = result.NewService(inmemdb.NewResultRepository(f.db), f.logger, f.conf)

	svc := f.svc
	for _, w := range wrap {
		svc = w(svc)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	result.InitValidators(validate, translator)

	f.app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:       f.conf,
		Logger:     f.logger,
		ResultSvc:  svc,
		Validate:   validate,
		Translator: translator,
	})
	return f
}

func (f fixture) token(t *testing.T, usr user.User) string {
	token, err := user.GenerateToken(user.NewClaims(usr, f.conf), f.conf.SecretKey)
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
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
	extra    interface{}
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
