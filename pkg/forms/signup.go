// Package forms ships ready-made form schemas.
package forms

import (
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/dsl"
	"github.com/aretw0/stepform/pkg/schema"
)

// Signup field ids.
const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phoneNumber"
	FieldStreetAddress   = "streetAddress"
	FieldCity            = "city"
	FieldZipCode         = "zipCode"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Signup returns the four-step registration form:
// personal information, address details, account setup and review.
func Signup() schema.Form {
	return dsl.New("signup").
		Title("Create your account").
		Step("Personal Information").
		Field(FieldFullName).Label("Full Name").Required().
		Field(FieldEmail).Label("Email").Kind(domain.KindEmail).Required().Email().
		Message(schema.RulePattern, "Invalid email address").
		Field(FieldPhoneNumber).Label("Phone Number").Kind(domain.KindTel).Required().Digits(10).
		Message(schema.RuleMinLength, "Phone number must be at least 10 digits").
		Message(schema.RulePattern, "Please enter a valid 10-digit phone number").
		Step("Address Details").
		Field(FieldStreetAddress).Label("Street Address").Required().
		Field(FieldCity).Label("City").Required().
		Field(FieldZipCode).Label("Zip Code").Required().Digits(5).
		Message(schema.RuleMinLength, "Zip code must be at least 5 digits").
		Message(schema.RulePattern, "Zip code must contain only digits").
		Step("Account Setup").
		Field(FieldUsername).Label("Username").Required().MinLength(4).
		Field(FieldPassword).Label("Password").Kind(domain.KindPassword).Required().MinLength(6).
		Field(FieldConfirmPassword).Label("Confirm Password").Kind(domain.KindPassword).Required().
		Equals(FieldPassword).
		Message(schema.RuleEquals, "Passwords do not match").
		Review("Review & Submit").
		MustBuild()
}
