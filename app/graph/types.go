package graph

import (
	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storegraph/app/models"
)

func hexID(id primitive.ObjectID) interface{} {
	if id.IsZero() {
		return nil
	}
	return id.Hex()
}

func deref[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// productField resolves one Product scalar through get.
func productField(t graphql.Output, get func(*models.Product) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.Product); ok && prod != nil {
				return get(prod), nil
			}
			return nil, nil
		},
	}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":                 productField(graphql.ID, func(p *models.Product) interface{} { return hexID(p.ID) }),
		"title":              productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Title) }),
		"brand":              productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Brand) }),
		"category":           productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Category) }),
		"description":        productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Description) }),
		"discountPercentage": productField(graphql.Float, func(p *models.Product) interface{} { return deref(p.DiscountPercentage) }),
		"images":             productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Images) }),
		"price":              productField(graphql.Float, func(p *models.Product) interface{} { return deref(p.Price) }),
		"rating":             productField(graphql.Float, func(p *models.Product) interface{} { return deref(p.Rating) }),
		"stock":              productField(graphql.Int, func(p *models.Product) interface{} { return deref(p.Stock) }),
		"thumbnail":          productField(graphql.String, func(p *models.Product) interface{} { return deref(p.Thumbnail) }),
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return hexID(p.Source.(*models.Order).ID), nil
			},
		},
		"userId": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*models.Order).UserID, nil
			},
		},
	},
})

// userType deliberately has no password field.
var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return hexID(p.Source.(*models.User).ID), nil
			},
		},
		"username": &graphql.Field{Type: graphql.String},
		"email":    &graphql.Field{Type: graphql.String},
		"isAdmin":  &graphql.Field{Type: graphql.Boolean},
	},
})

// productArgs are the writable product scalars shared by create and update.
func productArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"title":              &graphql.ArgumentConfig{Type: graphql.String},
		"brand":              &graphql.ArgumentConfig{Type: graphql.String},
		"category":           &graphql.ArgumentConfig{Type: graphql.String},
		"description":        &graphql.ArgumentConfig{Type: graphql.String},
		"discountPercentage": &graphql.ArgumentConfig{Type: graphql.Float},
		"images":             &graphql.ArgumentConfig{Type: graphql.String},
		"price":              &graphql.ArgumentConfig{Type: graphql.Float},
		"rating":             &graphql.ArgumentConfig{Type: graphql.Float},
		"stock":              &graphql.ArgumentConfig{Type: graphql.Int},
		"thumbnail":          &graphql.ArgumentConfig{Type: graphql.String},
	}
}

func productFieldsFrom(args map[string]interface{}) models.ProductFields {
	return models.ProductFields{
		Title:              arg[string](args, "title"),
		Brand:              arg[string](args, "brand"),
		Category:           arg[string](args, "category"),
		Description:        arg[string](args, "description"),
		DiscountPercentage: arg[float64](args, "discountPercentage"),
		Images:             arg[string](args, "images"),
		Price:              arg[float64](args, "price"),
		Rating:             arg[float64](args, "rating"),
		Stock:              arg[int](args, "stock"),
		Thumbnail:          arg[string](args, "thumbnail"),
	}
}

// arg returns a pointer to args[name] when it is present with type T.
func arg[T any](args map[string]interface{}, name string) *T {
	v, ok := args[name].(T)
	if !ok {
		return nil
	}
	return &v
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}
