package services

import (
	"context"
	"strings"

	"aquasmart/api"
	"aquasmart/entities"

	"golang.org/x/sync/errgroup"
)

// maxWeatherRequests bounds the concurrent requests of one batch.
const maxWeatherRequests = 4

// WeatherBatch fetches current weather for every district concurrently.
// A failed district gets a placeholder with its error text; it never fails
// the batch. Results keep the order of districts.
func (s *DashboardService) WeatherBatch(ctx context.Context, districts []string) []entities.DistrictWeather {
	out := make([]entities.DistrictWeather, len(districts))

	var g errgroup.Group
	g.SetLimit(maxWeatherRequests)
	for i, d := range districts {
		i, d := i, strings.TrimSpace(d)
		out[i].District = d
		g.Go(func() error {
			w, err := s.backend.GetCurrentWeather(ctx, d)
			if err != nil {
				s.log.Warnf("weather for %s: %v", d, err)
				out[i].Error = api.UserMessage(err)
				return nil
			}
			out[i].Weather = w
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// FieldDistricts returns the distinct districts of the fields, in field order.
func FieldDistricts(fields []FieldView) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range fields {
		d := strings.TrimSpace(f.District)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// HourlyForecast is secondary data: nil on failure.
func (s *DashboardService) HourlyForecast(ctx context.Context, district string, hours int) *entities.HourlyForecast {
	f, err := s.backend.GetHourlyForecast(ctx, district, hours)
	if err != nil {
		s.log.Warnf("hourly forecast for %s: %v", district, err)
		return nil
	}
	return f
}

func (s *DashboardService) Districts(ctx context.Context) (entities.Districts, error) {
	return s.backend.GetDistricts(ctx)
}
