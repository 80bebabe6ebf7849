package models

// City based on the 'cities' table. A city owns locations and batches.
type City struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name" example:"Lahore"`
	ShortName string `json:"shortName" db:"short_name" example:"LHR"`
}

// Location based on the 'locations' table.
type Location struct {
	ID     int64  `json:"id" db:"id"`
	CityID int64  `json:"cityId" db:"city_id"`
	Name   string `json:"name" db:"name" example:"Johar Town Campus"`

	City *City `json:"city,omitempty"` // relation, no db tag
}

// Batch based on the 'batches' table. Code is derived as
// {city.short_name}-{year%100} once at creation if absent.
type Batch struct {
	ID     int64  `json:"id" db:"id"`
	CityID int64  `json:"cityId" db:"city_id"`
	Year   int    `json:"year" db:"year" example:"2026"`
	Code   string `json:"code" db:"code" example:"LHR-26"`

	City *City `json:"city,omitempty"` // relation, no db tag
}
