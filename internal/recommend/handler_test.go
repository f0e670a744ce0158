package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-backend/internal/shared/metrics"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).RegisterRoutes(&r.RouterGroup)
	return r
}

func postQuery(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandlerRecommendMatched(t *testing.T) {
	before := metrics.RecommendationCount(string(OutcomeMatched))
	resp := postQuery(newTestRouter(), `{"soilType":"clay","region":"east","district":"Howrah","city":"Howrah","season":"kharif"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	var got Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, OutcomeMatched, got.Outcome)
	assert.Equal(t, []string{"Rice (Paddy)", "Jute"}, names(got))
	assert.Equal(t, before+1, metrics.RecommendationCount(string(OutcomeMatched)))
}

func TestHandlerSoftOutcomesAreOK(t *testing.T) {
	r := newTestRouter()

	resp := postQuery(r, `{"soilType":"clay"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"outcome":"incomplete_query"`)

	resp = postQuery(r, `{"soilType":"clay","region":"west","district":"Pune","city":"Pune","season":"kharif"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"outcome":"no_rule_matched"`)
	assert.Contains(t, resp.Body.String(), `"name":"Sugarcane"`)
}

func TestHandlerMalformedBody(t *testing.T) {
	resp := postQuery(newTestRouter(), `{"soilType":`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"validation_error"`)
}

func TestHandlerOptions(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/recommendations/options", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var got OptionSet
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, Options(), got)
}
