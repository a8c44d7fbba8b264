package forms

import (
	"strings"

	"rentalsBack/internal/models"
)

type Registration struct {
	Username  string `schema:"username" validate:"required,max=150,username"`
	Email     string `schema:"email" validate:"required,email,max=254"`
	Password1 string `schema:"password1" validate:"required,min=8,notnumeric"`
	Password2 string `schema:"password2" validate:"required,eqfield=Password1"`
	Role      string `schema:"role" validate:"omitempty,oneof=owner tenant"`
}

func (f *Registration) prepare() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	if f.Role == "" {
		f.Role = models.RoleOwner
	}
}

type Login struct {
	Username string `schema:"username" validate:"required,max=150"`
	Password string `schema:"password" validate:"required"`
}

func (f *Login) prepare() {
	f.Username = strings.TrimSpace(f.Username)
}

type Profile struct {
	Username string `schema:"username" validate:"required,max=150,username"`
	Email    string `schema:"email" validate:"required,email,max=254"`
}

func (f *Profile) prepare() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

type PropertyInput struct {
	Title        string  `schema:"title" validate:"required,max=255"`
	Location     string  `schema:"location" validate:"required,max=255"`
	Price        Decimal `schema:"price" validate:"required,number,maxdigits=10,places=2,wholedigits=8,nonnegative"`
	PropertyType string  `schema:"property_type" validate:"required,oneof=room house"`
	Description  string  `schema:"description" validate:"required"`
	IsAvailable  bool    `schema:"is_available"`
	ContactEmail string  `schema:"contact_email" validate:"required,email,max=254"`
	ContactPhone string  `schema:"contact_phone" validate:"max=20"`
}

func (f *PropertyInput) prepare() {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	f.Price = Decimal(strings.TrimSpace(string(f.Price)))
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.ContactPhone = strings.TrimSpace(f.ContactPhone)
}

// PropertyInputFrom fills the form with a stored property, for the edit page.
func PropertyInputFrom(p models.Property) PropertyInput {
	in := PropertyInput{
		Title:        p.Title,
		Location:     p.Location,
		Price:        Decimal(p.Price.StringFixed(2)),
		PropertyType: p.PropertyType,
		Description:  p.Description,
		IsAvailable:  p.IsAvailable,
		ContactEmail: p.ContactEmail,
	}
	if p.ContactPhone != nil {
		in.ContactPhone = *p.ContactPhone
	}
	return in
}

// Apply copies the validated input onto p. Owner, images and timestamps are
// left untouched.
func (f PropertyInput) Apply(p *models.Property) {
	p.Title = f.Title
	p.Location = f.Location
	if price := f.Price.Value(); price != nil {
		p.Price = *price
	}
	p.PropertyType = f.PropertyType
	p.Description = f.Description
	p.IsAvailable = f.IsAvailable
	p.ContactEmail = f.ContactEmail
	p.ContactPhone = nil
	if f.ContactPhone != "" {
		phone := f.ContactPhone
		p.ContactPhone = &phone
	}
}

type Contact struct {
	SenderName  string `schema:"sender_name" validate:"required,max=100"`
	SenderEmail string `schema:"sender_email" validate:"required,email,max=254"`
	Content     string `schema:"content" validate:"required"`
}

func (f *Contact) prepare() {
	f.SenderName = strings.TrimSpace(f.SenderName)
	f.SenderEmail = strings.TrimSpace(f.SenderEmail)
	f.Content = strings.TrimSpace(f.Content)
}

type Search struct {
	Location     string  `schema:"location" validate:"max=255"`
	MinPrice     Decimal `schema:"min_price" validate:"omitempty,number,places=2"`
	MaxPrice     Decimal `schema:"max_price" validate:"omitempty,number,places=2"`
	PropertyType string  `schema:"property_type" validate:"omitempty,oneof=room house"`
}

func (f *Search) prepare() {
	f.Location = strings.TrimSpace(f.Location)
	f.MinPrice = Decimal(strings.TrimSpace(string(f.MinPrice)))
	f.MaxPrice = Decimal(strings.TrimSpace(string(f.MaxPrice)))
}

// Filter converts a valid search into a repository filter.
func (f Search) Filter() models.PropertyFilter {
	return models.PropertyFilter{
		Location:     f.Location,
		MinPrice:     f.MinPrice.Value(),
		MaxPrice:     f.MaxPrice.Value(),
		PropertyType: f.PropertyType,
	}
}
