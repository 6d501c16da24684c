package auth

import "github.com/example/freshcart/pkg/models"

// AddressUpdate carries the primary address fields to change. Nil fields are
// left untouched.
type AddressUpdate struct {
	Label    *string          `json:"label,omitempty"`
	Street   *string          `json:"street,omitempty"`
	City     *string          `json:"city,omitempty"`
	Pincode  *string          `json:"pincode,omitempty"`
	Location *models.Location `json:"location,omitempty"`
}

// UserUpdate is a partial profile. Scalars replace, Address merges into the
// primary address field by field, and a non-nil Addresses replaces the list.
type UserUpdate struct {
	Name      *string          `json:"name,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Address   *AddressUpdate   `json:"address,omitempty"`
	Addresses []models.Address `json:"addresses,omitempty"`
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (up UserUpdate) apply(u models.User) models.User {
	setIf(&u.Name, up.Name)
	setIf(&u.Phone, up.Phone)
	setIf(&u.Email, up.Email)

	if a := up.Address; a != nil {
		setIf(&u.Address.Label, a.Label)
		setIf(&u.Address.Street, a.Street)
		setIf(&u.Address.City, a.City)
		setIf(&u.Address.Pincode, a.Pincode)
		if a.Location != nil {
			u.Address.Location = *a.Location
		}
	}

	if up.Addresses != nil {
		u.Addresses = append([]models.Address(nil), up.Addresses...)
		if up.Address == nil {
			if def, ok := defaultAddress(u.Addresses); ok {
				u.Address = def
			}
		}
	}

	normalizeDefault(&u)
	return u
}

func defaultAddress(list []models.Address) (models.Address, bool) {
	for _, a := range list {
		if a.IsDefault {
			return a, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return models.Address{}, false
}

// normalizeDefault makes the primary address the only default entry of the
// list, inserting it first when the list does not contain it.
func normalizeDefault(u *models.User) {
	u.Address.IsDefault = true

	found := false
	for i := range u.Addresses {
		if u.Addresses[i].ID == u.Address.ID {
			u.Addresses[i] = u.Address
			found = true
			continue
		}
		u.Addresses[i].IsDefault = false
	}
	if !found {
		u.Addresses = append([]models.Address{u.Address}, u.Addresses...)
	}
}
