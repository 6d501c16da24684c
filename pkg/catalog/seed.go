package catalog

import (
	"time"

	"github.com/example/freshcart/pkg/models"
)

const imageHost = "https://images.pexels.com/photos/"

func pexels(path string, width int) string {
	if width == 800 {
		return imageHost + path + "?auto=compress&cs=tinysrgb&w=800"
	}
	return imageHost + path + "?auto=compress&cs=tinysrgb&w=400"
}

func price(v float64) *float64 {
	return &v
}

// Seed returns the demo dataset the storefront boots with.
func Seed() Data {
	return Data{
		Shops:    seedShops(),
		Products: seedProducts(),
		Banners:  seedBanners(),
		Users:    seedUsers(),
		Orders:   seedOrders(time.Now()),
	}
}

func seedShops() []models.Shop {
	return []models.Shop{
		{
			ID:           "1",
			Name:         "Fresh Mart Grocery",
			Image:        pexels("264636/pexels-photo-264636.jpeg", 400),
			Rating:       4.5,
			DeliveryTime: "15-30 min",
			Categories:   []string{"Fruits", "Vegetables", "Dairy", "Snacks"},
			Location:     models.Location{Latitude: 19.0760, Longitude: 72.8777},
			IsOpen:       true,
		},
		{
			ID:           "2",
			Name:         "Organic Valley",
			Image:        pexels("1435904/pexels-photo-1435904.jpeg", 400),
			Rating:       4.8,
			DeliveryTime: "20-35 min",
			Categories:   []string{"Organic", "Fruits", "Vegetables", "Dairy"},
			Location:     models.Location{Latitude: 19.0850, Longitude: 72.8950},
			IsOpen:       true,
		},
		{
			ID:           "3",
			Name:         "Quick Stop Market",
			Image:        pexels("2292837/pexels-photo-2292837.jpeg", 400),
			Rating:       4.2,
			DeliveryTime: "10-25 min",
			Categories:   []string{"Snacks", "Beverages", "Dairy", "Bakery"},
			Location:     models.Location{Latitude: 19.0650, Longitude: 72.8650},
			IsOpen:       false,
		},
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:            "1",
			ShopID:        "1",
			Name:          "Fresh Bananas",
			Image:         pexels("2872755/pexels-photo-2872755.jpeg", 400),
			Price:         40,
			OriginalPrice: price(50),
			Category:      "Fruits",
			Unit:          "1 dozen",
			Description:   "Fresh ripe bananas, perfect for smoothies and snacking",
			InStock:       true,
			Rating:        4.5,
		},
		{
			ID:          "2",
			ShopID:      "1",
			Name:        "Red Apples",
			Image:       pexels("102104/pexels-photo-102104.jpeg", 400),
			Price:       120,
			Category:    "Fruits",
			Unit:        "1 kg",
			Description: "Crisp red apples, rich in vitamins and fiber",
			InStock:     true,
			Rating:      4.8,
		},
		{
			ID:          "3",
			ShopID:      "1",
			Name:        "Fresh Milk",
			Image:       pexels("248412/pexels-photo-248412.jpeg", 400),
			Price:       60,
			Category:    "Dairy",
			Unit:        "1 liter",
			Description: "Fresh full cream milk, farm to table quality",
			InStock:     true,
			Rating:      4.7,
		},
		{
			ID:          "4",
			ShopID:      "1",
			Name:        "Potato Chips",
			Image:       pexels("1583884/pexels-photo-1583884.jpeg", 400),
			Price:       25,
			Category:    "Snacks",
			Unit:        "50g pack",
			Description: "Crispy potato chips with sea salt",
			InStock:     false,
			Rating:      4.2,
		},
		{
			ID:          "5",
			ShopID:      "2",
			Name:        "Organic Carrots",
			Image:       pexels("143133/pexels-photo-143133.jpeg", 400),
			Price:       80,
			Category:    "Vegetables",
			Unit:        "500g",
			Description: "Fresh organic carrots, pesticide-free",
			InStock:     true,
			Rating:      4.9,
		},
		{
			ID:          "6",
			ShopID:      "2",
			Name:        "Organic Spinach",
			Image:       pexels("2280549/pexels-photo-2280549.jpeg", 400),
			Price:       50,
			Category:    "Vegetables",
			Unit:        "250g bunch",
			Description: "Fresh organic spinach leaves",
			InStock:     true,
			Rating:      4.6,
		},
	}
}

func seedBanners() []models.Banner {
	return []models.Banner{
		{
			ID:              "1",
			Title:           "Fresh Fruits",
			Subtitle:        "Up to 30% off on all fruits",
			Image:           pexels("1128678/pexels-photo-1128678.jpeg", 800),
			BackgroundColor: "#FFE4E1",
			ActionType:      models.BannerActionCategory,
			ActionValue:     "Fruits",
		},
		{
			ID:              "2",
			Title:           "Organic Collection",
			Subtitle:        "Farm fresh organic vegetables",
			Image:           pexels("1300972/pexels-photo-1300972.jpeg", 800),
			BackgroundColor: "#F0FFF0",
			ActionType:      models.BannerActionShop,
			ActionValue:     "2",
		},
		{
			ID:              "3",
			Title:           "Quick Delivery",
			Subtitle:        "Get groceries in 15 minutes",
			Image:           pexels("4393668/pexels-photo-4393668.jpeg", 800),
			BackgroundColor: "#E6F3FF",
			ActionType:      models.BannerActionOffer,
			ActionValue:     "quick-delivery",
		},
	}
}

func seedUsers() []models.User {
	johnHome := models.Address{
		ID:        "home-1",
		Label:     "Home",
		Street:    "123 Main Street, Apartment 4B",
		City:      "Mumbai",
		Pincode:   "400001",
		Location:  models.Location{Latitude: 19.0760, Longitude: 72.8777},
		IsDefault: true,
	}
	janeHome := models.Address{
		ID:        "home-2",
		Label:     "Home",
		Street:    "456 Park Avenue, Floor 2",
		City:      "Delhi",
		Pincode:   "110001",
		Location:  models.Location{Latitude: 28.7041, Longitude: 77.1025},
		IsDefault: true,
	}

	return []models.User{
		{
			ID:      "1",
			Name:    "John Doe",
			Phone:   "+91-9876543210",
			Email:   "john.doe@example.com",
			Address: johnHome,
			Addresses: []models.Address{
				johnHome,
				{
					ID:       "work-1",
					Label:    "Work",
					Street:   "456 Corporate Blvd, Suite 200",
					City:     "Mumbai",
					Pincode:  "400002",
					Location: models.Location{Latitude: 19.0760, Longitude: 72.8777},
				},
			},
		},
		{
			ID:      "2",
			Name:    "Jane Smith",
			Phone:   "+91-9876543211",
			Email:   "jane.smith@example.com",
			Address: janeHome,
			Addresses: []models.Address{
				janeHome,
				{
					ID:       "work-2",
					Label:    "Work",
					Street:   "123 Business Park, Tower A",
					City:     "Delhi",
					Pincode:  "110002",
					Location: models.Location{Latitude: 28.7041, Longitude: 77.1025},
				},
			},
		},
	}
}

// DemoAddress is the delivery address used when no user is signed in.
func DemoAddress() models.DeliveryAddress {
	return models.DeliveryAddress{
		Street:   "123 Main Street, Apartment 4B",
		City:     "Mumbai",
		Pincode:  "400001",
		Location: &models.Location{Latitude: 19.0760, Longitude: 72.8777},
	}
}

func seedOrders(now time.Time) []models.Order {
	return []models.Order{
		{
			ID:       "ORD002",
			UserID:   "1",
			ShopID:   "2",
			ShopName: "Organic Valley",
			Items: []models.OrderItem{
				{
					ProductID:    "5",
					ProductName:  "Organic Carrots",
					ProductImage: pexels("143133/pexels-photo-143133.jpeg", 400),
					Quantity:     1,
					Price:        80,
					Unit:         "500g",
				},
			},
			Subtotal:        80,
			DeliveryFee:     25,
			Tax:             8,
			Total:           113,
			Status:          models.OrderStatusOutForDelivery,
			PaymentMethod:   models.PaymentMethodCash,
			CreatedAt:       now,
			DeliveryAddress: DemoAddress(),
			DeliveryTime:    "15 minutes",
			Tracking:        &models.Tracking{Latitude: 19.0750, Longitude: 72.8750, ETA: "12 minutes"},
		},
		{
			ID:       "ORD001",
			UserID:   "1",
			ShopID:   "1",
			ShopName: "Fresh Mart Grocery",
			Items: []models.OrderItem{
				{
					ProductID:    "1",
					ProductName:  "Fresh Bananas",
					ProductImage: pexels("2872755/pexels-photo-2872755.jpeg", 400),
					Quantity:     2,
					Price:        40,
					Unit:         "1 dozen",
				},
				{
					ProductID:    "3",
					ProductName:  "Fresh Milk",
					ProductImage: pexels("248412/pexels-photo-248412.jpeg", 400),
					Quantity:     1,
					Price:        60,
					Unit:         "1 liter",
				},
			},
			Subtotal:        140,
			DeliveryFee:     20,
			Tax:             14,
			Total:           174,
			Status:          models.OrderStatusDelivered,
			PaymentMethod:   models.PaymentMethodRazorpay,
			CreatedAt:       time.Date(2024, time.January, 15, 10, 30, 0, 0, time.Local),
			DeliveryAddress: DemoAddress(),
			DeliveryTime:    "45 minutes",
		},
	}
}
