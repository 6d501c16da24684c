package models

type Address struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	Pincode   string   `json:"pincode"`
	Location  Location `json:"location"`
	IsDefault bool     `json:"is_default"`
}

// User is the demo profile. Address is the primary address and is always
// also present in Addresses with IsDefault set.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   Address   `json:"address"`
	Addresses []Address `json:"addresses"`
}

func (u User) Clone() User {
	c := u
	c.Addresses = append([]Address(nil), u.Addresses...)
	return c
}

func (u User) DeliveryAddress() DeliveryAddress {
	loc := u.Address.Location
	return DeliveryAddress{
		Street:   u.Address.Street,
		City:     u.Address.City,
		Pincode:  u.Address.Pincode,
		Location: &loc,
	}
}
