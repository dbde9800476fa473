package services

import (
	"fmt"
	"math"

	"aquasmart/entities"

	"github.com/spf13/viper"
)

// SquareMetresPerDonum converts field areas for the yield tables.
const SquareMetresPerDonum = 1000.0

type FieldArea struct {
	Name   string  `mapstructure:"name" json:"name"`
	AreaM2 float64 `mapstructure:"area_m2" json:"area_m2"`
}

type CropEconomics struct {
	Name          string  `mapstructure:"name" json:"name"`
	YieldPerDonum float64 `mapstructure:"yield_per_donum" json:"yield_per_donum"` // kg
	PricePerKg    float64 `mapstructure:"price_per_kg" json:"price_per_kg"`
}

// Economics looks up field areas by field name and crop figures by plant
// type name.
type Economics struct {
	areas map[string]float64
	crops map[string]CropEconomics
}

func NewEconomics(areas []FieldArea, crops []CropEconomics) *Economics {
	e := &Economics{areas: make(map[string]float64), crops: make(map[string]CropEconomics)}
	for _, a := range areas {
		e.areas[a.Name] = a.AreaM2
	}
	for _, c := range crops {
		e.crops[c.Name] = c
	}
	return e
}

// LoadEconomics reads the field_areas and crops lists of a YAML file.
func LoadEconomics(path string) (*Economics, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read economics: %w", err)
	}
	var file struct {
		FieldAreas []FieldArea     `mapstructure:"field_areas"`
		Crops      []CropEconomics `mapstructure:"crops"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode economics: %w", err)
	}
	return NewEconomics(file.FieldAreas, file.Crops), nil
}

func (e *Economics) Area(fieldName string) (float64, bool) {
	if e == nil {
		return 0, false
	}
	a, ok := e.areas[fieldName]
	return a, ok
}

func (e *Economics) Crop(plantName string) (CropEconomics, bool) {
	if e == nil {
		return CropEconomics{}, false
	}
	c, ok := e.crops[plantName]
	return c, ok
}

// EstimateRevenue is area in dönüm × yield per dönüm × price per kg.
func EstimateRevenue(areaM2 float64, crop CropEconomics) float64 {
	return areaM2 / SquareMetresPerDonum * crop.YieldPerDonum * crop.PricePerKg
}

// Estimate is the area and revenue shown on a field, each nil when its
// inputs are unknown.
type Estimate struct {
	AreaM2    *float64       `json:"area_m2,omitempty"`
	AreaDonum *float64       `json:"area_donum,omitempty"`
	Crop      *CropEconomics `json:"crop,omitempty"`
	Revenue   *float64       `json:"estimated_revenue,omitempty"`
}

func (e *Economics) Estimate(f entities.Field) Estimate {
	var out Estimate
	area, ok := e.Area(f.Name)
	if !ok {
		return out
	}
	donum := area / SquareMetresPerDonum
	out.AreaM2, out.AreaDonum = &area, &donum
	if f.PlantType == nil {
		return out
	}
	crop, ok := e.Crop(f.PlantType.Name)
	if !ok {
		return out
	}
	revenue := math.Round(EstimateRevenue(area, crop))
	out.Crop, out.Revenue = &crop, &revenue
	return out
}
