package services

import (
	"context"

	"aquasmart/entities"
)

// Backend is the subset of the irrigation backend client the dashboard uses.
// *api.Client implements it.
type Backend interface {
	LoginUser(ctx context.Context, email, password string) (*entities.User, error)
	GetFields(ctx context.Context, userID int) ([]entities.Field, error)
	CreateField(ctx context.Context, userID int, field entities.FieldCreate) (*entities.Field, error)
	UpdateFieldPlantType(ctx context.Context, userID, fieldID, plantTypeID int) (*entities.Field, error)
	GetPlantTypes(ctx context.Context) ([]entities.PlantType, error)
	GetCurrentWeather(ctx context.Context, district string) (*entities.CurrentWeather, error)
	GetHourlyForecast(ctx context.Context, district string, hours int) (*entities.HourlyForecast, error)
	GetDistricts(ctx context.Context) (entities.Districts, error)
	CheckIrrigation(ctx context.Context, fieldID int) (*entities.IrrigationDecision, error)
	CheckAllFields(ctx context.Context, userID int) (*entities.AllFieldsDecision, error)
	GetSensors(ctx context.Context, userID int) ([]entities.Sensor, error)
}
