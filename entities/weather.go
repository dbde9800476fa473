package entities

import "encoding/json"

// CurrentWeather is the backend's snapshot for one district.
type CurrentWeather struct {
	Location      string   `json:"konum"`
	Temperature   *float64 `json:"sicaklik"`
	FeelsLike     *float64 `json:"hissedilen"`
	Humidity      *float64 `json:"nem"`
	WindSpeed     *float64 `json:"ruzgar_hizi"`
	WindDirection string   `json:"ruzgar_yonu_text"`
	Emoji         string   `json:"emoji"`
	Condition     string   `json:"durum"`
	IsRaining     bool     `json:"yagis_var_mi"`

	Raw json.RawMessage `json:"-"`
}

// FirstRain is when the forecast window first shows precipitation.
type FirstRain struct {
	HoursAway int    `json:"kac_saat_sonra"`
	Hour      string `json:"saat"`
}

// HourlyForecast summarises the next hours for one district.
type HourlyForecast struct {
	RainIn1h  bool       `json:"onumuzdeki_1_saat_yagis"`
	RainIn3h  bool       `json:"onumuzdeki_3_saat_yagis"`
	RainIn6h  bool       `json:"onumuzdeki_6_saat_yagis"`
	FirstRain *FirstRain `json:"ilk_yagis"`

	Raw json.RawMessage `json:"-"`
}

// DistrictWeather is one entry of a weather batch. Exactly one of Weather and
// Error is set.
type DistrictWeather struct {
	District string          `json:"district"`
	Weather  *CurrentWeather `json:"weather,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Districts is the district/province lookup table; the backend keys it by
// district code.
type Districts map[string]json.RawMessage

func (w *CurrentWeather) UnmarshalJSON(data []byte) error {
	type alias CurrentWeather
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*w = CurrentWeather(a)
	w.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (h *HourlyForecast) UnmarshalJSON(data []byte) error {
	type alias HourlyForecast
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*h = HourlyForecast(a)
	h.Raw = append(json.RawMessage(nil), data...)
	return nil
}
