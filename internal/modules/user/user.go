package user

import (
	"time"

	"github.com/georgemunganga/storefront-backend/internal/access"
)

// User is a storefront account. The password hash never leaves the server.
type User struct {
	ID               string      `json:"id" bson:"_id"`
	CompanyName      string      `json:"companyName" bson:"companyName"`
	ContactName      string      `json:"contactName" bson:"contactName"`
	Email            string      `json:"email" bson:"email"`
	PasswordHash     string      `json:"-" bson:"password"`
	TaxID            string      `json:"taxId" bson:"taxId"`
	Phone            string      `json:"phone" bson:"phone"`
	Role             access.Role `json:"userType" bson:"userType"`
	RegistrationDate time.Time   `json:"registrationDate" bson:"registrationDate"`
}

// Filter narrows ListUsers. Zero values match everything.
type Filter struct {
	Role access.Role
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	TaxID       string `json:"taxId" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	UserType    string `json:"userType"`
}

// UpdateRequest is a partial update of the mutable profile fields. Email and
// role are fixed at creation.
type UpdateRequest struct {
	CompanyName *string `json:"companyName"`
	ContactName *string `json:"contactName"`
	TaxID       *string `json:"taxId"`
	Phone       *string `json:"phone"`
}
