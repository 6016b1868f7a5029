package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
)

func (r *Resolver) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"getAllProduct": &graphql.Field{
				Type: graphql.NewList(productType),
				// id is accepted for compatibility and ignored.
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("getAllProduct", r.getAllProduct),
			},
			"getProduct": &graphql.Field{
				Type:    productType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("getProduct", r.getProduct),
			},
			"getAllOrders": &graphql.Field{
				Type:    graphql.NewList(orderType),
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("getAllOrders", r.getAllOrders),
			},
			"getUser": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"username": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("getUser", r.getUser),
			},
			"getAllUsers": &graphql.Field{
				Type:    graphql.NewList(userType),
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: r.guard("getAllUsers", r.getAllUsers),
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.guard("me", r.me),
			},
		},
	})
}

func (r *Resolver) getAllProduct(p graphql.ResolveParams) (interface{}, error) {
	return r.cfg.Repos.Products.All(p.Context)
}

func (r *Resolver) getProduct(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p.Args, "id")
	if id == "" {
		return nil, nil
	}

	prod, err := r.cfg.Repos.Products.FindByID(p.Context, id)
	if err != nil || prod == nil {
		return nil, err
	}
	return prod, nil
}

// getAllOrders lists orders for the given user id, or for the caller when
// no id is passed.
func (r *Resolver) getAllOrders(p graphql.ResolveParams) (interface{}, error) {
	caller, ok := auth.IdentityFrom(p.Context)
	if !ok {
		return nil, rbac.ErrUnauthenticated
	}

	userID := stringArg(p.Args, "id")
	if userID == "" {
		userID = caller.UserID
	}
	return r.cfg.Repos.Orders.FindByUser(p.Context, userID)
}

func (r *Resolver) getUser(p graphql.ResolveParams) (interface{}, error) {
	u, err := r.cfg.Repos.Users.FindByUsername(p.Context, stringArg(p.Args, "username"))
	if err != nil || u == nil {
		return nil, err
	}
	return u, nil
}

func (r *Resolver) getAllUsers(p graphql.ResolveParams) (interface{}, error) {
	return r.cfg.Repos.Users.All(p.Context, stringArg(p.Args, "id"))
}

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	caller, ok := auth.IdentityFrom(p.Context)
	if !ok {
		return nil, rbac.ErrUnauthenticated
	}

	u, err := r.cfg.Repos.Users.FindByID(p.Context, caller.UserID)
	if err != nil || u == nil {
		return nil, err
	}
	return u, nil
}
