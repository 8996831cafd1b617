package dto

import (
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/service"
)

type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor,len=7"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

func (r TagRequest) ToInput() service.TagInput {
	return service.TagInput{Name: r.Name, Color: r.Color, Slug: r.Slug}
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func FromModelToTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// ProductRequest creates an ingredient (product) in the catalog.
type ProductRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

func (r ProductRequest) ToInput() service.ProductInput {
	return service.ProductInput{Name: r.Name, Unit: r.MeasurementUnit}
}

type ProductResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func FromModelToProductResponse(p models.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, MeasurementUnit: p.Unit}
}
