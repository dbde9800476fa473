// Package api is a thin client for the irrigation backend. Every method makes
// exactly one HTTP call and returns the decoded body unmodified.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aquasmart/entities"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero keeps the default of none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", method, path, ErrDecode, err)
	}
	return nil
}

// ========== AUTH ==========

func (c *Client) RegisterUser(ctx context.Context, email, fullName, password string) (*entities.User, error) {
	var user entities.User
	body := map[string]string{"email": email, "full_name": fullName, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) LoginUser(ctx context.Context, email, password string) (*entities.User, error) {
	var user entities.User
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ========== FIELDS ==========

func (c *Client) GetFields(ctx context.Context, userID int) ([]entities.Field, error) {
	var fields []entities.Field
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/fields/", userID), nil, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) CreateField(ctx context.Context, userID int, field entities.FieldCreate) (*entities.Field, error) {
	var created entities.Field
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/fields/", userID), nil, field, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFieldPlantType replaces the crop of a field. Callers re-authenticate first.
func (c *Client) UpdateFieldPlantType(ctx context.Context, userID, fieldID, plantTypeID int) (*entities.Field, error) {
	var updated entities.Field
	path := fmt.Sprintf("/users/%d/fields/%d/plant-type", userID, fieldID)
	body := map[string]int{"plant_type_id": plantTypeID}
	if err := c.do(ctx, http.MethodPut, path, nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ========== PLANT TYPES ==========

func (c *Client) GetPlantTypes(ctx context.Context) ([]entities.PlantType, error) {
	var plants []entities.PlantType
	if err := c.do(ctx, http.MethodGet, "/plant-types/", nil, nil, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

func (c *Client) CreatePlantType(ctx context.Context, plant entities.PlantTypeCreate) (*entities.PlantType, error) {
	var created entities.PlantType
	if err := c.do(ctx, http.MethodPost, "/plant-types/", nil, plant, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ========== WEATHER ==========

func (c *Client) GetCurrentWeather(ctx context.Context, district string) (*entities.CurrentWeather, error) {
	var weather entities.CurrentWeather
	q := url.Values{"ilce": {district}}
	if err := c.do(ctx, http.MethodGet, "/weather/current", q, nil, &weather); err != nil {
		return nil, err
	}
	return &weather, nil
}

// GetHourlyForecast asks for the next hours of forecast; hours <= 0 means 24.
func (c *Client) GetHourlyForecast(ctx context.Context, district string, hours int) (*entities.HourlyForecast, error) {
	if hours <= 0 {
		hours = 24
	}
	var forecast entities.HourlyForecast
	q := url.Values{"ilce": {district}, "saat": {strconv.Itoa(hours)}}
	if err := c.do(ctx, http.MethodGet, "/weather/hourly-forecast", q, nil, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (c *Client) GetDistricts(ctx context.Context) (entities.Districts, error) {
	var districts entities.Districts
	if err := c.do(ctx, http.MethodGet, "/weather/ilceler", nil, nil, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// ========== SIMULATION ==========

func (c *Client) CheckIrrigation(ctx context.Context, fieldID int) (*entities.IrrigationDecision, error) {
	var decision entities.IrrigationDecision
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/simulation/check-irrigation/%d", fieldID), nil, nil, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

func (c *Client) CheckAllFields(ctx context.Context, userID int) (*entities.AllFieldsDecision, error) {
	var decisions entities.AllFieldsDecision
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/simulation/check-all-fields/%d", userID), nil, nil, &decisions); err != nil {
		return nil, err
	}
	return &decisions, nil
}

func (c *Client) CreateSensorLog(ctx context.Context, log entities.SensorLogCreate) (*entities.SensorLog, error) {
	var created entities.SensorLog
	if err := c.do(ctx, http.MethodPost, "/simulation/sensor-log/", nil, log, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ========== SENSORS ==========

func (c *Client) GetSensors(ctx context.Context, userID int) ([]entities.Sensor, error) {
	var sensors []entities.Sensor
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sensors/user/%d", userID), nil, nil, &sensors); err != nil {
		return nil, err
	}
	return sensors, nil
}
