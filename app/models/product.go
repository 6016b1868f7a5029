package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalogue entry. Every scalar is optional; a nil field is
// simply not stored.
type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"                json:"id,omitempty"`
	Title              *string            `bson:"title,omitempty"              json:"title"`
	Brand              *string            `bson:"brand,omitempty"              json:"brand"`
	Category           *string            `bson:"category,omitempty"           json:"category"`
	Description        *string            `bson:"description,omitempty"        json:"description"`
	DiscountPercentage *float64           `bson:"discountPercentage,omitempty" json:"discountPercentage"`
	Images             *string            `bson:"images,omitempty"             json:"images"`
	Price              *float64           `bson:"price,omitempty"              json:"price"`
	Rating             *float64           `bson:"rating,omitempty"             json:"rating"`
	Stock              *int               `bson:"stock,omitempty"              json:"stock"`
	Thumbnail          *string            `bson:"thumbnail,omitempty"          json:"thumbnail"`
}

// ProductFields is the writable part of a Product, as received from a
// createProduct or updateProduct call.
type ProductFields struct {
	Title              *string
	Brand              *string
	Category           *string
	Description        *string
	DiscountPercentage *float64
	Images             *string
	Price              *float64
	Rating             *float64
	Stock              *int
	Thumbnail          *string
}

// NewProduct builds an unsaved product from fields.
func NewProduct(f ProductFields) *Product {
	p := &Product{}
	p.Apply(f)
	return p
}

// Apply overwrites every field that is set in f and leaves the rest alone.
func (p *Product) Apply(f ProductFields) {
	if f.Title != nil {
		p.Title = f.Title
	}
	if f.Brand != nil {
		p.Brand = f.Brand
	}
	if f.Category != nil {
		p.Category = f.Category
	}
	if f.Description != nil {
		p.Description = f.Description
	}
	if f.DiscountPercentage != nil {
		p.DiscountPercentage = f.DiscountPercentage
	}
	if f.Images != nil {
		p.Images = f.Images
	}
	if f.Price != nil {
		p.Price = f.Price
	}
	if f.Rating != nil {
		p.Rating = f.Rating
	}
	if f.Stock != nil {
		p.Stock = f.Stock
	}
	if f.Thumbnail != nil {
		p.Thumbnail = f.Thumbnail
	}
}

// Clone returns a copy that shares no pointers with p.
func (p *Product) Clone() *Product {
	c := &Product{ID: p.ID}
	c.Apply(ProductFields{
		Title:              cloneStr(p.Title),
		Brand:              cloneStr(p.Brand),
		Category:           cloneStr(p.Category),
		Description:        cloneStr(p.Description),
		DiscountPercentage: cloneFloat(p.DiscountPercentage),
		Images:             cloneStr(p.Images),
		Price:              cloneFloat(p.Price),
		Rating:             cloneFloat(p.Rating),
		Stock:              cloneInt(p.Stock),
		Thumbnail:          cloneStr(p.Thumbnail),
	})
	return c
}

func cloneStr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
