package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/cpctplus/api"
	"github.com/dekarrin/cpctplus/config"
	"github.com/dekarrin/cpctplus/exprgrammar"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func exprDemo() api.Demo {
	g, table := exprgrammar.Build()
	return api.Demo{
		Grammar: g,
		Table:   table,
		TokenByName: map[string]grammar.TokenIdx{
			"N": exprgrammar.N, "+": exprgrammar.Plus, "(": exprgrammar.LPar, ")": exprgrammar.RPar,
		},
	}
}

func newTestAPI(t *testing.T) api.API {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	return api.API{
		Demos:             map[string]api.Demo{"expr": exprDemo()},
		Config:            config.Config{}.FillDefaults(),
		Secret:            []byte("test-secret"),
		OperatorTokenHash: hash,
	}
}

func TestTokenEndpoint_RejectsBadCredential(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"operator_token": "wrong"})
	resp, err := http.Post(srv.URL+api.PathPrefix+"/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecoverEndpoint_RequiresAuth(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	body, _ := json.Marshal(map[string]interface{}{"grammar": "expr", "tokens": []string{"N"}})
	resp, err := http.Post(srv.URL+api.PathPrefix+"/recover", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenThenRecover_Succeeds(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	tokBody, _ := json.Marshal(map[string]string{"operator_token": "hunter2"})
	tokResp, err := http.Post(srv.URL+api.PathPrefix+"/token", "application/json", bytes.NewReader(tokBody))
	require.NoError(t, err)
	defer tokResp.Body.Close()
	require.Equal(t, http.StatusCreated, tokResp.StatusCode)

	var tokOut struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(tokResp.Body).Decode(&tokOut))
	require.NotEmpty(t, tokOut.Token)

	recBody, _ := json.Marshal(map[string]interface{}{
		"grammar": "expr",
		"tokens":  []string{"N", "+", "N"},
	})
	req, err := http.NewRequest(http.MethodPost, srv.URL+api.PathPrefix+"/recover", bytes.NewReader(recBody))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokOut.Token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	recResp, err := client.Do(req)
	require.NoError(t, err)
	defer recResp.Body.Close()
	require.Equal(t, http.StatusOK, recResp.StatusCode)

	var out struct {
		Accepted bool `json:"accepted"`
	}
	require.NoError(t, json.NewDecoder(recResp.Body).Decode(&out))
	assert.True(t, out.Accepted)
}

func TestRecoverEndpoint_RejectsUnknownGrammar(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	tokBody, _ := json.Marshal(map[string]string{"operator_token": "hunter2"})
	tokResp, err := http.Post(srv.URL+api.PathPrefix+"/token", "application/json", bytes.NewReader(tokBody))
	require.NoError(t, err)
	defer tokResp.Body.Close()
	var tokOut struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(tokResp.Body).Decode(&tokOut))

	body, _ := json.Marshal(map[string]interface{}{"grammar": "nope", "tokens": []string{"N"}})
	req, err := http.NewRequest(http.MethodPost, srv.URL+api.PathPrefix+"/recover", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokOut.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
