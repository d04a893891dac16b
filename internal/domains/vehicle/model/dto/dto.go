package dto

import (
	"mime/multipart"
	"rentwheels/internal/domains/vehicle/model"
	"rentwheels/shared"
	gDto "rentwheels/shared/dto"
	gModel "rentwheels/shared/model"
	"rentwheels/shared/timezone"

	"github.com/google/uuid"
)

type CreateVehicleRequest struct {
	Name         string `json:"name"         validate:"required,min=3,max=100"`
	Make         string `json:"make"         validate:"required,max=50"`
	Model        string `json:"model"        validate:"required,max=50"`
	Year         int    `json:"year"         validate:"required,min=1980,max=2100"`
	Category     string `json:"category"     validate:"required,oneof=economy suv luxury van pickup"`
	Transmission string `json:"transmission" validate:"required,oneof=automatic manual"`
	Fuel         string `json:"fuel"         validate:"required,oneof=petrol diesel hybrid electric"`
	Seats        int    `json:"seats"        validate:"required,min=1,max=20"`
	PlateNumber  string `json:"plate_number" validate:"required,max=20"`
	DailyRate    int64  `json:"daily_rate"   validate:"required,min=1"`
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	return model.Vehicle{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		Category:     c.Category,
		Transmission: c.Transmission,
		Fuel:         c.Fuel,
		Seats:        c.Seats,
		PlateNumber:  c.PlateNumber,
		DailyRate:    c.DailyRate,
		Available:    true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVehicleRequest struct {
	Name         string `db:"name"         json:"name"         validate:"omitempty,min=3,max=100"`
	Make         string `db:"make"         json:"make"         validate:"omitempty,max=50"`
	Model        string `db:"model"        json:"model"        validate:"omitempty,max=50"`
	Year         int    `db:"year"         json:"year"         validate:"omitempty,min=1980,max=2100"`
	Category     string `db:"category"     json:"category"     validate:"omitempty,oneof=economy suv luxury van pickup"`
	Transmission string `db:"transmission" json:"transmission" validate:"omitempty,oneof=automatic manual"`
	Fuel         string `db:"fuel"         json:"fuel"         validate:"omitempty,oneof=petrol diesel hybrid electric"`
	Seats        int    `db:"seats"        json:"seats"        validate:"omitempty,min=1,max=20"`
	DailyRate    int64  `db:"daily_rate"   json:"daily_rate"   validate:"omitempty,min=1"`
	Available    *bool  `db:"available"    json:"available"    validate:"omitempty"`
}

type VehicleResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Category     string `json:"category"`
	Transmission string `json:"transmission"`
	Fuel         string `json:"fuel"`
	Seats        int    `json:"seats"`
	PlateNumber  string `json:"plate_number"`
	DailyRate    int64  `json:"daily_rate"`
	ImageURL     string `json:"image_url,omitempty"`
	Available    bool   `json:"available"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(mod model.Vehicle) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Make = mod.Make
	r.Model = mod.Model
	r.Year = mod.Year
	r.Category = mod.Category
	r.Transmission = mod.Transmission
	r.Fuel = mod.Fuel
	r.Seats = mod.Seats
	r.PlateNumber = mod.PlateNumber
	r.DailyRate = mod.DailyRate
	r.ImageURL = mod.ImageURL
	r.Available = mod.Available
	r.Metadata.FromModel(mod.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image"                swaggerignore:"true"                 validate:"required,mimetypes=image/png image/jpg image/jpeg"`
	ImageFile multipart.File        `json:"-"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadImageResponse) FromModel(url, fileName string) {
	r.URL = url
	r.FileName = fileName
}
