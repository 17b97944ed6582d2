package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/imolchanov/sunday/internal/weather"
)

var validate = validator.New()

// StatusForError maps a service failure to an HTTP status: lookups that
// produced nothing are 404, upstream trouble is 502, local storage trouble
// is 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, weather.ErrNetwork), errors.Is(err, weather.ErrParse):
		return fiber.StatusBadGateway
	case errors.Is(err, weather.ErrStorage):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		city, err := service.CurrentCityWeather(c.Context())
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(city)
	})

	v1.Get("/weather/localtime", func(c *fiber.Ctx) error {
		var q coordQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		lt, err := service.LocalTime(c.Context(), q.Lat, q.Lon)
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(lt)
	})

	v1.Get("/cities/popular", func(c *fiber.Ctx) error {
		cities, err := service.PopularCities(c.Context())
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(cities)
	})

	v1.Get("/cities/search", func(c *fiber.Ctx) error {
		var q searchQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cities, err := service.SearchCities(c.Context(), q.Name, q.Country, q.Count, q.Language)
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(cities)
	})

	v1.Get("/cities/:name/current", func(c *fiber.Ctx) error {
		city, err := service.CityByName(c.Context(), c.Params("name"))
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(city)
	})

	v1.Get("/cities/:id/forecast", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city id must be an integer")
		}
		forecast, err := service.CityWeather(c.Context(), id)
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(forecast)
	})

	v1.Get("/pins", func(c *fiber.Ctx) error {
		cities, err := service.PinnedCities(c.Context())
		if err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.JSON(cities)
	})

	v1.Post("/pins", func(c *fiber.Ctx) error {
		var body pinRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := service.Pin(body.toCityModel()); err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/pins/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city id must be an integer")
		}
		if err := service.Unpin(id); err != nil {
			return fiber.NewError(StatusForError(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// searchQuery holds query parameters for the city search endpoint.
type searchQuery struct {
	Name     string `validate:"required"`
	Country  string
	Count    int `validate:"omitempty,min=1,max=10"`
	Language string
}

func (q *searchQuery) bind(c *fiber.Ctx) error {
	q.Name = c.Query("name")
	q.Country = c.Query("country")
	q.Count = c.QueryInt("count")
	q.Language = c.Query("language")
	return validate.Struct(q)
}

// coordQuery holds latitude/longitude query parameters.
type coordQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

func (q *coordQuery) bind(c *fiber.Ctx) error {
	q.Lat = c.QueryFloat("lat")
	q.Lon = c.QueryFloat("lon")
	return validate.Struct(q)
}

// pinRequest is the snapshot a caller pins.
type pinRequest struct {
	ID             int                   `json:"id" validate:"required"`
	Name           string                `json:"name" validate:"required"`
	Message        string                `json:"message"`
	CurrentWeather weather.ForecastModel `json:"currentWeather"`
}

func (p pinRequest) toCityModel() weather.CityModel {
	return weather.CityModel{
		ID:             p.ID,
		Name:           p.Name,
		Message:        p.Message,
		CurrentWeather: p.CurrentWeather,
	}
}
