package models

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Shop struct {
	ID           string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string   `gorm:"type:varchar(100);not null" json:"name"`
	Image        string   `gorm:"type:varchar(255)" json:"image"`
	Rating       float64  `json:"rating"`
	DeliveryTime string   `gorm:"type:varchar(32)" json:"delivery_time"`
	Categories   []string `gorm:"serializer:json" json:"categories"`
	Location     Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	IsOpen       bool     `json:"is_open"`
}

func (Shop) TableName() string {
	return "shops"
}

type Product struct {
	ID            string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ShopID        string   `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	Name          string   `gorm:"type:varchar(100);not null" json:"name"`
	Image         string   `gorm:"type:varchar(255)" json:"image"`
	Price         float64  `gorm:"type:decimal(10,2)" json:"price"`
	OriginalPrice *float64 `gorm:"type:decimal(10,2)" json:"original_price,omitempty"`
	Category      string   `gorm:"type:varchar(50);index" json:"category"`
	Unit          string   `gorm:"type:varchar(32)" json:"unit"`
	Description   string   `gorm:"type:text" json:"description"`
	InStock       bool     `json:"in_stock"`
	Rating        float64  `json:"rating"`
}

func (Product) TableName() string {
	return "products"
}

type BannerAction string

const (
	BannerActionShop     BannerAction = "shop"
	BannerActionCategory BannerAction = "category"
	BannerActionOffer    BannerAction = "offer"
)

type Banner struct {
	ID              string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title           string       `gorm:"type:varchar(100)" json:"title"`
	Subtitle        string       `gorm:"type:varchar(255)" json:"subtitle"`
	Image           string       `gorm:"type:varchar(255)" json:"image"`
	BackgroundColor string       `gorm:"type:varchar(16)" json:"background_color"`
	ActionType      BannerAction `gorm:"type:varchar(16)" json:"action_type"`
	ActionValue     string       `gorm:"type:varchar(64)" json:"action_value"`
}

func (Banner) TableName() string {
	return "banners"
}
