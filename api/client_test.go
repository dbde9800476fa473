package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquasmart/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
	ctype  string
}

// newBackend serves status/payload for every request and records the last one.
func newBackend(t *testing.T, status int, payload string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.ctype = r.Header.Get("Content-Type")
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/"), rec
}

func TestLoginUser(t *testing.T) {
	c, rec := newBackend(t, http.StatusOK, `{"id":7,"email":"ahmet@ciftci.com","full_name":"Ahmet"}`)

	user, err := c.LoginUser(context.Background(), "ahmet@ciftci.com", "ahmet123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/users/login", rec.path)
	assert.Equal(t, "application/json", rec.ctype)
	assert.Equal(t, "ahmet123", rec.body["password"])
	assert.Equal(t, &entities.User{ID: 7, Email: "ahmet@ciftci.com", FullName: "Ahmet"}, user)
}

func TestRegisterUser_SendsFullName(t *testing.T) {
	c, rec := newBackend(t, http.StatusOK, `{"id":1,"email":"a@b.c","full_name":"A B"}`)

	_, err := c.RegisterUser(context.Background(), "a@b.c", "A B", "pw")
	require.NoError(t, err)
	assert.Equal(t, "/users/", rec.path)
	assert.Equal(t, "A B", rec.body["full_name"])
}

func TestGetFields_DecodesNestedData(t *testing.T) {
	payload := `[{"id":3,"name":"Polatli","location":"Ankara","ilce":"polatli","owner_id":7,
		"pump_flow_rate":100,"water_unit_price":1.5,
		"plant_type":{"id":2,"name":"Bugday","critical_moisture":12,"min_moisture":25,"max_moisture":60},
		"sensor_logs":[{"id":1,"moisture":40,"temperature":20,"timestamp":"2026-01-01T10:00:00.123456"},
		               {"id":2,"moisture":22,"temperature":21,"timestamp":"2026-01-01T11:00:00Z"}]},
		{"id":4,"name":"Bare","location":"x","owner_id":7,"pump_flow_rate":0,"water_unit_price":0,"sensor_logs":[]}]`
	c, rec := newBackend(t, http.StatusOK, payload)

	fields, err := c.GetFields(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/users/7/fields/", rec.path)
	require.Len(t, fields, 2)

	require.NotNil(t, fields[0].PlantType)
	assert.Equal(t, 12.0, fields[0].PlantType.CriticalMoisture)
	assert.Equal(t, "polatli", fields[0].District)
	require.NotNil(t, fields[0].LatestLog())
	assert.Equal(t, 22.0, fields[0].LatestLog().Moisture)

	assert.Nil(t, fields[1].PlantType)
	assert.Nil(t, fields[1].LatestLog())
}

func TestUpdateFieldPlantType(t *testing.T) {
	c, rec := newBackend(t, http.StatusOK, `{"id":5,"name":"f","location":"l","owner_id":1,"pump_flow_rate":0,"water_unit_price":0,"sensor_logs":[]}`)

	_, err := c.UpdateFieldPlantType(context.Background(), 1, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/users/1/fields/5/plant-type", rec.path)
	assert.Equal(t, float64(9), rec.body["plant_type_id"])
}

func TestWeatherQueries(t *testing.T) {
	c, rec := newBackend(t, http.StatusOK, `{"konum":"Polatli","sicaklik":12.5,"durum":"Bulutlu","yagis_var_mi":true}`)

	w, err := c.GetCurrentWeather(context.Background(), "polatli")
	require.NoError(t, err)
	assert.Equal(t, "/weather/current", rec.path)
	assert.Equal(t, "ilce=polatli", rec.query)
	require.NotNil(t, w.Temperature)
	assert.Equal(t, 12.5, *w.Temperature)
	assert.True(t, w.IsRaining)
	assert.NotEmpty(t, w.Raw)

	_, err = c.GetHourlyForecast(context.Background(), "polatli", 0)
	require.NoError(t, err)
	assert.Equal(t, "/weather/hourly-forecast", rec.path)
	assert.Equal(t, "ilce=polatli&saat=24", rec.query)
}

func TestCheckAllFields_AcceptsArrayAndObject(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `[{"field":"A","pompa":"YARIM DOZ"}]`)
	res, err := c.CheckAllFields(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, entities.PumpHalf, res.Decisions[0].PumpState())

	c, rec := newBackend(t, http.StatusOK, `{"user_id":1,"fields":[{"field":"B","pompa":"KAPALI"}]}`)
	res, err = c.CheckAllFields(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "/simulation/check-all-fields/1", rec.path)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, entities.PumpClosed, res.Decisions[0].PumpState())
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
		detail string
	}{
		{"bad credentials", http.StatusUnauthorized, `{"detail":"Email veya sifre hatali"}`, KindUnauthorized, "Email veya sifre hatali"},
		{"missing endpoint", http.StatusNotFound, `{"detail":"Not Found"}`, KindNotImplemented, "Not Found"},
		{"wrong method", http.StatusMethodNotAllowed, `{"detail":"Method Not Allowed"}`, KindNotImplemented, "Method Not Allowed"},
		{"server", http.StatusInternalServerError, `oops`, KindServer, ""},
		{"validation", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, KindServer, "field required; bad email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newBackend(t, tt.status, tt.body)
			_, err := c.LoginUser(context.Background(), "a", "b")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.kind, Classify(err))
			assert.NotEmpty(t, UserMessage(err))
		})
	}
}

func TestTransportFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).GetPlantTypes(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err))
	assert.Equal(t, KindNone, Classify(nil))
	assert.Empty(t, UserMessage(nil))
}

func TestMalformedBodyIsServerKind(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `<html>proxy error</html>`)
	_, err := c.GetFields(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, KindServer, Classify(err))
	assert.False(t, IsTransport(err))
}

func TestDetailPrefersBackendMessage(t *testing.T) {
	err := &APIError{StatusCode: 400, Detail: "Bu email zaten kayıtlı!"}
	assert.Equal(t, "Bu email zaten kayıtlı!", Detail(err))
	assert.Equal(t, UserMessage(&APIError{StatusCode: 401}), Detail(&APIError{StatusCode: 401}))
}

func TestIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).GetSensors(context.Background(), 1)
	assert.True(t, IsTransport(err))
	assert.False(t, IsTransport(&APIError{StatusCode: 500}))
	assert.False(t, IsTransport(errors.New("field_id is required")))
}
