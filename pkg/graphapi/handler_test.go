package graphapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alarion239/studentrecords/pkg/credential"
	"github.com/Alarion239/studentrecords/pkg/roster"
	"github.com/Alarion239/studentrecords/pkg/store/memory"
	"github.com/Alarion239/studentrecords/pkg/token"
)

type gqlError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []gqlError                 `json:"errors"`
}

type testAPI struct {
	handler *Handler
	issuer  *token.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	issuer, err := token.NewIssuer([]byte("graphapi-test"), time.Hour)
	require.NoError(t, err)

	st := memory.New()
	svc := roster.NewService(st, st, credential.NewHasher(bcrypt.MinCost), issuer)
	schema, err := NewSchema(svc)
	require.NoError(t, err)

	return &testAPI{handler: NewHandler(schema), issuer: issuer}
}

func (a *testAPI) do(t *testing.T, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()
	body, err := json.Marshal(Request{Query: query, Variables: vars})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type studentJSON struct {
	ID           string `json:"id"`
	RollNo       string `json:"roll_no"`
	Name         string `json:"name"`
	ClassSection string `json:"classSection"`
	Mark         string `json:"mark"`
}

const addRow = `mutation Add($roll: String!, $name: String!, $class: String!, $mark: String!) {
  addNewRow(roll_no: $roll, name: $name, classSection: $class, mark: $mark) { id roll_no name classSection mark }
}`

func TestAddNewRowAndStudents(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, addRow, map[string]interface{}{"roll": "12345", "name": "John Doe", "class": "10A", "mark": "85"})
	require.Empty(t, resp.Errors)

	created := decode[studentJSON](t, resp.Data["addNewRow"])
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, studentJSON{ID: created.ID, RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"}, created)

	resp = api.do(t, `{ students { id roll_no name classSection mark } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []studentJSON{created}, decode[[]studentJSON](t, resp.Data["students"]))
}

func TestUpdateRowPatchesOnlyGivenFields(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, addRow, map[string]interface{}{"roll": "1", "name": "Jane", "class": "9B", "mark": "70"})
	require.Empty(t, resp.Errors)
	created := decode[studentJSON](t, resp.Data["addNewRow"])

	resp = api.do(t, `mutation($id: ID!) { updateRow(id: $id, mark: "X") { id roll_no name classSection mark } }`,
		map[string]interface{}{"id": created.ID})
	require.Empty(t, resp.Errors)

	want := created
	want.Mark = "X"
	assert.Equal(t, want, decode[studentJSON](t, resp.Data["updateRow"]))
}

func TestDeleteRow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, addRow, map[string]interface{}{"roll": "1", "name": "Jane", "class": "9B", "mark": "70"})
	require.Empty(t, resp.Errors)
	created := decode[studentJSON](t, resp.Data["addNewRow"])

	resp = api.do(t, `mutation($id: ID!) { deleteRow(id: $id) { message } }`, map[string]interface{}{"id": created.ID})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"message":"Student deleted successfully"}`, string(resp.Data["deleteRow"]))
}

func TestDeleteRowUnknownID(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, `mutation { deleteRow(id: 999) { message } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "delete row: Student not found", resp.Errors[0].Message)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])
	assert.JSONEq(t, "null", string(resp.Data["deleteRow"]))
}

func TestUpdateRowInvalidID(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, `mutation { updateRow(id: "abc", mark: "1") { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, `invalid id "abc"`)
}

const signup = `mutation($name: String!, $email: String!, $password: String!, $role: UserRole!) {
  signup(name: $name, email: $email, password: $password, role: $role) { id name email role token }
}`

type authJSON struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
	Token string  `json:"token"`
}

func TestSignupAndSignIn(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, signup, map[string]interface{}{"name": "Ada", "email": "ada@example.com", "password": "s3cret", "role": "TEACHER"})
	require.Empty(t, resp.Errors)
	signed := decode[authJSON](t, resp.Data["signup"])
	require.NotNil(t, signed.Name)
	assert.Equal(t, "Ada", *signed.Name)
	assert.Equal(t, "TEACHER", signed.Role)

	claims, err := api.issuer.Parse(signed.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)

	for _, field := range []string{"signIn", "login"} {
		t.Run(field, func(t *testing.T) {
			resp := api.do(t, `mutation($email: String!, $password: String!) { `+field+`(email: $email, password: $password) { id name email role token } }`,
				map[string]interface{}{"email": "ada@example.com", "password": "s3cret"})
			require.Empty(t, resp.Errors)

			got := decode[authJSON](t, resp.Data[field])
			assert.Equal(t, signed.ID, got.ID)
			assert.Nil(t, got.Name)
			assert.NotEmpty(t, got.Token)
		})
	}

	resp = api.do(t, `mutation { signIn(email: "ada@example.com", password: "nope") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "sign in: invalid credentials", resp.Errors[0].Message)

	resp = api.do(t, `mutation { signIn(email: "ghost@example.com", password: "nope") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "sign in: user not found", resp.Errors[0].Message)
}

func TestSignupValidation(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, signup, map[string]interface{}{"name": "", "email": "a@b.c", "password": "pw", "role": "STUDENT"})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "sign up: email, name, and password are required", resp.Errors[0].Message)

	resp = api.do(t, signup, map[string]interface{}{"name": "A", "email": "a@b.c", "password": "pw", "role": "ADMIN"})
	assert.NotEmpty(t, resp.Errors, "unknown enum values are rejected by the executor")
}

func TestUserQuery(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, signup, map[string]interface{}{"name": "Ben", "email": "ben@example.com", "password": "pw", "role": "STUDENT"})
	require.Empty(t, resp.Errors)

	resp = api.do(t, `{ user(email: "ben@example.com") { name email role } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"name":"Ben","email":"ben@example.com","role":"STUDENT"}`, string(resp.Data["user"]))
}

func TestHTTPTransport(t *testing.T) {
	api := newTestAPI(t)

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		target := "/graphql?query=" + url.QueryEscape(`{ students { id } }`)
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"students":[]}}`, rec.Body.String())
	})

	t.Run("bad body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("{"))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte(`{}`))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/graphql", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestGetRejectsMutations(t *testing.T) {
	api := newTestAPI(t)

	get := func(params url.Values) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil))
		return rec
	}

	rec := get(url.Values{"query": {`mutation { addNewRow(roll_no: "1", name: "Eve", classSection: "9A", mark: "1") { id } }`}})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))

	rec = get(url.Values{"query": {`mutation { deleteRow(id: 1) { message } }`}})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	resp := api.do(t, `{ students { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `[]`, string(resp.Data["students"]), "no row may be written by a GET")

	doc := `query List { students { id } } mutation Add { addNewRow(roll_no: "1", name: "Eve", classSection: "9A", mark: "1") { id } }`
	rec = get(url.Values{"query": {doc}, "operationName": {"List"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(url.Values{"query": {doc}, "operationName": {"Add"}})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
