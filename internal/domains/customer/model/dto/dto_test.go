package dto_test

import (
	"testing"

	"pms/internal/domains/customer/model"
	"pms/internal/domains/customer/model/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateCustomerRequest_ToModel(t *testing.T) {
	req := dto.CreateCustomerRequest{
		Name:  "  Ana García ",
		Email: " Ana@Example.COM",
		Phone: "+34 600 12 34 56",
	}

	customer := req.ToModel("test-user-id")

	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, "Ana García", customer.Name)
	assert.Equal(t, "ana@example.com", customer.Email)
	assert.Equal(t, "+34600123456", customer.Phone)
	assert.Equal(t, "test-user-id", customer.CreatedBy)
	assert.Equal(t, "test-user-id", customer.ModifiedBy)
	assert.False(t, customer.CreatedAt.IsZero())
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "empty stays empty", phone: "  ", want: ""},
		{name: "national number gets region prefix", phone: "600123456", want: "+34600123456"},
		{name: "foreign number keeps its prefix", phone: "+44 20 7946 0958", want: "+442079460958"},
		{name: "unparseable kept as typed", phone: "ext. 12", want: "ext. 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.NormalizePhone(tt.phone))
		})
	}
}

func TestUpdateCustomerRequest_Normalize(t *testing.T) {
	phone := "600 123 456"
	req := dto.UpdateCustomerRequest{Name: " John ", Email: "JOHN@example.com ", Phone: &phone}

	req.Normalize()

	assert.Equal(t, "John", req.Name)
	assert.Equal(t, "john@example.com", req.Email)
	assert.Equal(t, "+34600123456", *req.Phone)
	assert.Equal(t, "600 123 456", phone)
}

func TestGetCustomersResponse_FromModels(t *testing.T) {
	now := timezone.Now()
	customers := []model.Customer{
		{ID: "c-1", Name: "John", Metadata: gModel.Metadata{CreatedAt: now, ModifiedAt: now}},
		{ID: "c-2", Name: "Jane", Metadata: gModel.Metadata{CreatedAt: now, ModifiedAt: now}},
	}

	var response dto.GetCustomersResponse
	response.FromModels(customers, 15, 10)

	assert.Equal(t, 15, response.TotalData)
	assert.Equal(t, 2, response.TotalPage)
	assert.Len(t, response.Customers, 2)
	assert.Equal(t, "Jane", response.Customers[1].Name)
}

func TestSearchFilter(t *testing.T) {
	group := dto.SearchFilter(" ana ")

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "LOWER(customers.name) LIKE LOWER(:name)")
	assert.Contains(t, where, " OR ")
	assert.Contains(t, where, "LOWER(customers.email) LIKE LOWER(:email)")
	assert.Equal(t, "%ana%", args["name"])
	assert.Equal(t, "%ana%", args["email"])

	assert.Empty(t, dto.SearchFilter("  ").Filters)
}
