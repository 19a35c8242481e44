package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// WeatherClient wraps the OpenWeather current-conditions and forecast APIs.
type WeatherClient struct {
	key     string
	baseURL string
	http    *http.Client
}

// NewWeatherClient creates a WeatherClient. An empty key produces a client
// whose calls answer apperror.Unavailable.
func NewWeatherClient(key string) *WeatherClient {
	return &WeatherClient{
		key:     key,
		baseURL: openWeatherBaseURL,
		http:    newHTTPClient(),
	}
}

// openWeatherCurrent is the slice of the OpenWeather response we consume.
type openWeatherCurrent struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// CurrentByCoords fetches current conditions for a coordinate pair.
func (c *WeatherClient) CurrentByCoords(ctx context.Context, lat, lon float64) (*model.CurrentConditions, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("weather")
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	return c.current(ctx, q)
}

// CurrentByCity fetches current conditions for a city name.
func (c *WeatherClient) CurrentByCity(ctx context.Context, city string) (*model.CurrentConditions, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("weather")
	}

	q := url.Values{}
	q.Set("q", city)
	return c.current(ctx, q)
}

func (c *WeatherClient) current(ctx context.Context, q url.Values) (*model.CurrentConditions, error) {
	q.Set("appid", c.key)
	q.Set("units", "metric")

	var raw openWeatherCurrent
	if err := getJSON(ctx, c.http, "openweather", c.baseURL+"/weather?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	cond := &model.CurrentConditions{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		TempMin:     raw.Main.TempMin,
		TempMax:     raw.Main.TempMax,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		WindDeg:     raw.Wind.Deg,
		Pressure:    raw.Main.Pressure,
		Visibility:  raw.Visibility,
		Sunrise:     time.Unix(raw.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(raw.Sys.Sunset, 0).UTC(),
	}
	if len(raw.Weather) > 0 {
		cond.Description = raw.Weather[0].Description
		cond.Icon = raw.Weather[0].Icon
		cond.IconURL = fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", raw.Weather[0].Icon)
	}

	return cond, nil
}

type openWeatherForecast struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// ForecastByCity fetches the five-day, three-hour-step forecast for a city.
func (c *WeatherClient) ForecastByCity(ctx context.Context, city string) (*model.Forecast, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("weather")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.key)
	q.Set("units", "metric")

	var raw openWeatherForecast
	if err := getJSON(ctx, c.http, "openweather", c.baseURL+"/forecast?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	fc := &model.Forecast{
		City:    raw.City.Name,
		Country: raw.City.Country,
		Entries: make([]model.ForecastEntry, 0, len(raw.List)),
	}
	for _, item := range raw.List {
		entry := model.ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			TempMin:     item.Main.TempMin,
			TempMax:     item.Main.TempMax,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		fc.Entries = append(fc.Entries, entry)
	}

	return fc, nil
}
