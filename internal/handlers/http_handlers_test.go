package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolao/internal/services"
	"bolao/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	l := logger.Init("handlers_test", false, false, io.Discard)
	code := m.Run()
	l.Close()
	os.Exit(code)
}

func newTestRouter() (*gin.Engine, *testutil.MemStore) {
	store := testutil.NewMemStore()
	reprocessor := services.NewReprocessService(store)
	bolao := services.NewBolaoService(store, reprocessor)
	h := NewHTTPHandler(bolao, reprocessor)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createContest(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/contests", gin.H{
		"name":                    "Bolão de Teste",
		"minNumber":               1,
		"maxNumber":               60,
		"numbersPerParticipation": 6,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestCreateContestDefaults(t *testing.T) {
	r, store := newTestRouter()
	id := createContest(t, r)

	contest := store.Contests[id]
	assert.Equal(t, "65", contest.Percentages.TopPct.String())
	assert.Equal(t, "18", contest.Percentages.AdminFeePct.String())
}

func TestCreateContestRejectsBadSplit(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/contests", gin.H{
		"name":                    "ruim",
		"minNumber":               1,
		"maxNumber":               60,
		"numbersPerParticipation": 6,
		"topPct":                  "80",
		"secondPct":               "10",
		"lowestPct":               "7",
		"adminFeePct":             "18",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFullContestFlow(t *testing.T) {
	r, _ := newTestRouter()
	id := createContest(t, r)

	for _, p := range []gin.H{
		{"userId": "ua", "numbers": []int{1, 2, 3, 4, 5, 6}, "amountPaid": "500.00"},
		{"userId": "ub", "numbers": []int{1, 2, 3, 4, 5, 7}, "amountPaid": "500.00"},
	} {
		w := doJSON(t, r, http.MethodPost, "/contests/"+id+"/participations", p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodPost, "/contests/"+id+"/draws", gin.H{
		"numbers":  []int{1, 2, 3, 4, 5, 6},
		"drawDate": "2025-03-10T20:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Draw struct {
			ID string `json:"id"`
		} `json:"draw"`
		Report struct {
			DrawsProcessed int `json:"drawsProcessed"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Report.DrawsProcessed)

	w = doJSON(t, r, http.MethodGet, "/contests/"+id+"/draws/"+created.Draw.ID+"/payouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payoutsResp struct {
		Payouts []struct {
			Category  string `json:"category"`
			AmountWon string `json:"amountWon"`
		} `json:"payouts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payoutsResp))
	require.Len(t, payoutsResp.Payouts, 2)

	// 1000.00 collected: TOP takes 533.00, SECOND 82.00.
	amounts := map[string]string{}
	for _, p := range payoutsResp.Payouts {
		amounts[p.Category] = p.AmountWon
	}
	assert.Equal(t, "533", amounts["TOP"])
	assert.Equal(t, "82", amounts["SECOND"])

	w = doJSON(t, r, http.MethodGet, "/contests/"+id+"/standings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var standingsResp struct {
		Standings []struct {
			UserID string `json:"userId"`
			Score  int    `json:"score"`
		} `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &standingsResp))
	require.Len(t, standingsResp.Standings, 2)
	assert.Equal(t, "ua", standingsResp.Standings[0].UserID)
	assert.Equal(t, 6, standingsResp.Standings[0].Score)
}

func TestParticipationAfterDrawRejected(t *testing.T) {
	r, _ := newTestRouter()
	id := createContest(t, r)

	w := doJSON(t, r, http.MethodPost, "/contests/"+id+"/participations", gin.H{
		"userId": "ua", "numbers": []int{1, 2, 3, 4, 5, 6}, "amountPaid": "100.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/contests/"+id+"/draws", gin.H{
		"numbers":  []int{7, 8, 9, 10, 11, 12},
		"drawDate": "2025-03-10T20:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The contest finished when the draw was recorded; sales are closed.
	w = doJSON(t, r, http.MethodPost, "/contests/"+id+"/participations", gin.H{
		"userId": "ub", "numbers": []int{1, 2, 3, 4, 5, 7}, "amountPaid": "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetContestNotFound(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/contests/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterParticipationRejectsWrongCount(t *testing.T) {
	r, _ := newTestRouter()
	id := createContest(t, r)

	w := doJSON(t, r, http.MethodPost, "/contests/"+id+"/participations", gin.H{
		"userId": "ua", "numbers": []int{1, 2, 3}, "amountPaid": "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
