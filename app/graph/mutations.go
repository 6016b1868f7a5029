package graph

import (
	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
)

func (r *Resolver) mutationType() *graphql.Object {
	updateArgs := productArgs()
	updateArgs["id"] = &graphql.ArgumentConfig{Type: graphql.String}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProduct": &graphql.Field{
				Type:    productType,
				Args:    productArgs(),
				Resolve: r.guard("createProduct", r.createProduct),
			},
			"updateProduct": &graphql.Field{
				Type:    productType,
				Args:    updateArgs,
				Resolve: r.guard("updateProduct", r.updateProduct),
			},
			"deleteProduct": &graphql.Field{
				Type:    productType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("deleteProduct", r.deleteProduct),
			},
			"registerUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.String},
					"isAdmin":  &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.guard("registerUser", r.registerUser),
			},
			"login": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.guard("login", r.login),
			},
		},
	})
}

// createProduct stores whatever fields were passed. Two identical calls
// create two products.
func (r *Resolver) createProduct(p graphql.ResolveParams) (interface{}, error) {
	prod := models.NewProduct(productFieldsFrom(p.Args))
	if err := r.cfg.Repos.Products.Create(p.Context, prod); err != nil {
		logger.WithCtx(p.Context).Error("create product", "error", err)
		return nil, err
	}

	logger.WithCtx(p.Context).Info("product created", "id", prod.ID.Hex())
	return prod, nil
}

// updateProduct overwrites the passed fields. By default the product is
// returned as it was before the write.
func (r *Resolver) updateProduct(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p.Args, "id")
	if id == "" {
		return nil, nil
	}

	prod, err := r.cfg.Repos.Products.Update(p.Context, id, productFieldsFrom(p.Args), r.cfg.UpdateReturnsAfter)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, nil
	}

	logger.WithCtx(p.Context).Info("product updated", "id", id)
	return prod, nil
}

// deleteProduct echoes its arguments back; deleting an id that does not
// exist is not an error.
func (r *Resolver) deleteProduct(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p.Args, "id")
	if id == "" {
		return &models.Product{}, nil
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	if err := r.cfg.Repos.Products.Delete(p.Context, id); err != nil {
		return nil, err
	}

	logger.WithCtx(p.Context).Info("product deleted", "id", id)
	return &models.Product{ID: oid}, nil
}

func (r *Resolver) registerUser(p graphql.ResolveParams) (interface{}, error) {
	isAdmin, _ := p.Args["isAdmin"].(bool)
	return r.cfg.Auth.Register(p.Context,
		stringArg(p.Args, "username"),
		stringArg(p.Args, "email"),
		stringArg(p.Args, "password"),
		isAdmin,
	)
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	return r.cfg.Auth.Login(p.Context, stringArg(p.Args, "username"), stringArg(p.Args, "password"))
}
