package domain

import "time"

// Role gates what a user may do in the marketplace.
type Role string

const (
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDeveloper, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// IsSeller reports whether r may list products as its own seller.
// Admins can create products too, but they are not sellers.
func (r Role) IsSeller() bool {
	return r == RoleDeveloper || r == RoleCompany
}

// User is a marketplace account. Identity comes from the external provider;
// the id is the provider's subject.
type User struct {
	ID              string    `json:"id" db:"id"`
	Email           *string   `json:"email" db:"email"`
	FirstName       *string   `json:"firstName" db:"first_name"`
	LastName        *string   `json:"lastName" db:"last_name"`
	ProfileImageURL *string   `json:"profileImageUrl" db:"profile_image_url"`
	Role            Role      `json:"role" db:"role"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// SellerProfile holds the extended metadata of a developer or company account.
type SellerProfile struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	Mobile        *string   `json:"mobile" db:"mobile"`
	Address       *string   `json:"address" db:"address"`
	PanNumber     *string   `json:"panNumber" db:"pan_number"`
	AadharNumber  *string   `json:"aadharNumber" db:"aadhar_number"`
	Qualification *string   `json:"qualification" db:"qualification"`
	Description   *string   `json:"description" db:"description"`
	CompanyName   *string   `json:"companyName" db:"company_name"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
