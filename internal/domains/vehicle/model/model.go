package model

import (
	"rentwheels/shared/model"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID           = "id"
	FieldName         = "name"
	FieldMake         = "make"
	FieldModel        = "model"
	FieldYear         = "year"
	FieldCategory     = "category"
	FieldTransmission = "transmission"
	FieldFuel         = "fuel"
	FieldSeats        = "seats"
	FieldPlateNumber  = "plate_number"
	FieldDailyRate    = "daily_rate"
	FieldImageURL     = "image_url"
	FieldAvailable    = "available"
)

type Vehicle struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Make         string `db:"make"`
	Model        string `db:"model"`
	Year         int    `db:"year"`
	Category     string `db:"category"`
	Transmission string `db:"transmission"`
	Fuel         string `db:"fuel"`
	Seats        int    `db:"seats"`
	PlateNumber  string `db:"plate_number"`
	// DailyRate is in minor currency units.
	DailyRate int64  `db:"daily_rate"`
	ImageURL  string `db:"image_url"`
	Available bool   `db:"available"`
	model.Metadata
}
