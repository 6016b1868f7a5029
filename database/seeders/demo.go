package seeders

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/storegraph/app/models"
)

// Demo accounts. Passwords are hashed on the way in like any registration.
var demoUsers = []struct {
	username, email, password string
	admin                     bool
}{
	{"admin", "admin@storegraph.local", "admin", true},
	{"emily", "emily@storegraph.local", "emilypass", false},
	{"michael", "michael@storegraph.local", "michaelpass", false},
}

func init() {
	Register("products", seedProducts)
	Register("users", seedUsers)
	Register("orders", seedOrders)
}

func seedProducts(ctx context.Context, d Deps) error {
	fields := []models.ProductFields{
		{
			Title: ptr("Essence Mascara Lash Princess"), Brand: ptr("Essence"), Category: ptr("beauty"),
			Description:        ptr("Volumizing and lengthening mascara."),
			DiscountPercentage: ptr(7.17), Price: ptr(9.99), Rating: ptr(4.94), Stock: ptr(5),
			Images: ptr("https://cdn.dummyjson.com/products/images/beauty/1.png"), Thumbnail: ptr("https://cdn.dummyjson.com/products/thumb/beauty/1.png"),
		},
		{
			Title: ptr("Annibale Colombo Sofa"), Brand: ptr("Annibale Colombo"), Category: ptr("furniture"),
			Description:        ptr("Italian leather three-seater."),
			DiscountPercentage: ptr(14.4), Price: ptr(2499.99), Rating: ptr(3.08), Stock: ptr(60),
			Images: ptr("https://cdn.dummyjson.com/products/images/furniture/2.png"), Thumbnail: ptr("https://cdn.dummyjson.com/products/thumb/furniture/2.png"),
		},
		{
			Title: ptr("Apple"), Category: ptr("groceries"),
			Description: ptr("Fresh and crisp."),
			Price:       ptr(1.99), Rating: ptr(4.19), Stock: ptr(8),
		},
	}

	for _, f := range fields {
		if err := d.Repos.Products.Create(ctx, models.NewProduct(f)); err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, d Deps) error {
	for _, u := range demoUsers {
		existing, err := d.Repos.Users.FindByUsername(ctx, u.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := d.Auth.Register(ctx, u.username, u.email, u.password, u.admin); err != nil {
			return fmt.Errorf("register %s: %w", u.username, err)
		}
	}
	return nil
}

// seedOrders gives every non-admin demo user two orders.
func seedOrders(ctx context.Context, d Deps) error {
	for _, u := range demoUsers {
		if u.admin {
			continue
		}
		user, err := d.Repos.Users.FindByUsername(ctx, u.username)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %s not seeded", u.username)
		}

		for i := 1; i <= 2; i++ {
			o := &models.Order{
				UserID: user.ID.Hex(),
				Extra:  bson.M{"total": float64(i) * 19.99, "status": "placed"},
			}
			if err := d.Repos.Orders.Create(ctx, o); err != nil {
				return err
			}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
