package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type submission struct {
	Name   string  `json:"name" validate:"required,max=10"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Gender string  `json:"gender" validate:"required,in=mens,womens,kids"`
	Slug   string  `json:"slug" validate:"nullable,alpha_dash"`
	Link   string  `json:"link" validate:"nullable,url"`
	Stock  int     `json:"stock" validate:"nullable,gte=0"`
}

func valid() submission {
	return submission{Name: "Kurta", Price: 49.5, Gender: "mens"}
}

func TestStructValid(t *testing.T) {
	errs := Struct(valid())
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(submission{})

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "gender")
	assert.NotContains(t, errs, "slug")
	assert.NotContains(t, errs, "link")
}

func TestStructRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*submission)
		field   string
		message string
	}{
		{
			name:    "max length",
			mutate:  func(s *submission) { s.Name = "a very long product name" },
			field:   "name",
			message: "must not exceed 10 characters",
		},
		{
			name:    "gt zero",
			mutate:  func(s *submission) { s.Price = -1 },
			field:   "price",
			message: "must be greater than 0",
		},
		{
			name:    "in list",
			mutate:  func(s *submission) { s.Gender = "unisex" },
			field:   "gender",
			message: "is invalid",
		},
		{
			name:    "alpha dash",
			mutate:  func(s *submission) { s.Slug = "has spaces!" },
			field:   "slug",
			message: "may only contain",
		},
		{
			name:    "url scheme",
			mutate:  func(s *submission) { s.Link = "ftp://example.com/a" },
			field:   "link",
			message: "valid URL",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)

			errs := Struct(s)
			assert.Contains(t, errs, tc.field)
			assert.Contains(t, errs[tc.field], tc.message)
		})
	}
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	s := valid()
	s.Slug = ""
	s.Link = ""

	errs := Struct(s)
	assert.False(t, HasErrors(errs))
}

func TestStructFirstFailingRulePerField(t *testing.T) {
	s := valid()
	s.Name = ""

	errs := Struct(s)
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestSplitRulesKeepsMultiValueParams(t *testing.T) {
	rules := splitRules("required,in=mens,womens,kids,max=100")
	assert.Equal(t, []string{"required", "in=mens,womens,kids", "max=100"}, rules)
}
