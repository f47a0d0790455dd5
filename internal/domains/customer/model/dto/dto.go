package dto

import (
	"pms/internal/domains/customer/model"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"
	"pms/shared/validator"
	"strings"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=50,phone"`
}

func (c *CreateCustomerRequest) ToModel(user string) model.Customer {
	now := timezone.Now()

	return model.Customer{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: NormalizePhone(c.Phone),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCustomerRequest struct {
	Name  string  `db:"name"  json:"name"  validate:"omitempty,max=200"`
	Email string  `db:"email" json:"email" validate:"omitempty,email,max=254"`
	Phone *string `db:"phone" json:"phone" validate:"omitempty,max=50,phone"`
}

// Normalize trims the contact fields and stores the phone in E.164 when it parses.
func (u *UpdateCustomerRequest) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Phone != nil {
		phone := NormalizePhone(*u.Phone)
		u.Phone = &phone
	}
}

// NormalizePhone returns the E.164 form of phone, or phone unchanged when it cannot be parsed.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return phone
	}

	normalized, err := validator.ParsePhone(phone)
	if err != nil {
		return phone
	}

	return normalized
}

type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.Metadata.FromModel(model.Metadata)
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Customers = make([]CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}

// SearchFilter matches customers whose name or email contains term, ignoring case.
func SearchFilter(term string) gDto.FilterGroup {
	term = strings.TrimSpace(term)
	if term == "" {
		return gDto.FilterGroup{}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    term,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorLike,
				Value:    term,
				Table:    model.TableName,
			},
		},
	}
}
