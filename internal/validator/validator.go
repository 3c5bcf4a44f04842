package validator

import (
	"errors"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/slug"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	validRoles    = []interface{}{domain.RoleAdmin, domain.RoleAuthor}
)

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator provides validation methods for request bodies.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePost validates a post create or update body.
func (v *Validator) ValidatePost(p *domain.PostRequest) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title,
			validation.Required.Error("title_required"),
			validation.Length(1, 200).Error("title_too_long"),
		),
		validation.Field(&p.Description,
			validation.Length(0, 1000).Error("description_too_long"),
		),
		validation.Field(&p.Tags,
			validation.Each(validation.Required.Error("tag_empty")),
		),
		validation.Field(&p.Categories,
			validation.Each(validation.Required.Error("category_empty")),
		),
		validation.Field(&p.CustomURL,
			validation.Length(0, 200).Error("custom_url_too_long"),
		),
	)
	if err != nil {
		return err
	}

	// Custom rule: the folder name needs a non-empty slug
	if slug.Generate(p.SlugSource()) == "" {
		field := "title"
		if p.CustomURL != nil && *p.CustomURL != "" {
			field = "custom_url"
		}
		return validation.Errors{
			field: validation.NewError("slug_empty", "must contain at least one letter or digit"),
		}
	}
	return nil
}

// ValidateCategoryCreate validates a category create body.
func (v *Validator) ValidateCategoryCreate(c *domain.CreateCategoryRequest) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, nameRules("name")...),
		validation.Field(&c.Description,
			validation.Length(0, 1000).Error("description_too_long"),
		),
	)
}

// ValidateCategoryUpdate validates a category update body.
func (v *Validator) ValidateCategoryUpdate(c *domain.UpdateCategoryRequest) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NewName, nameRules("new_name")...),
		validation.Field(&c.Description,
			validation.Length(0, 1000).Error("description_too_long"),
		),
	)
}

// ValidateTagCreate validates a tag create body.
func (v *Validator) ValidateTagCreate(t *domain.CreateTagRequest) error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, nameRules("name")...),
	)
}

// ValidateTagUpdate validates a tag update body.
func (v *Validator) ValidateTagUpdate(t *domain.UpdateTagRequest) error {
	return validation.ValidateStruct(t,
		validation.Field(&t.NewName, nameRules("new_name")...),
	)
}

// ValidateUserCreate validates a user create body. All fields are required.
func (v *Validator) ValidateUserCreate(u *domain.UserInput) error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Username,
			validation.Required.Error("username_required"),
			validation.Length(3, 50).Error("username_length"),
			validation.Match(usernameRegex).Error("invalid_username_format"),
		),
		validation.Field(&u.Email,
			validation.Required.Error("email_required"),
			is.Email.Error("invalid_email_format"),
		),
		validation.Field(&u.Password,
			validation.Required.Error("password_required"),
			validation.Length(8, 72).Error("password_length"),
		),
		validation.Field(&u.Roles,
			validation.Each(validation.In(validRoles...).Error("invalid_role")),
		),
	)
}

// ValidateUserUpdate validates a user update body. The username comes from
// the path and an empty password keeps the current one.
func (v *Validator) ValidateUserUpdate(u *domain.UserInput) error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Email,
			validation.Required.Error("email_required"),
			is.Email.Error("invalid_email_format"),
		),
		validation.Field(&u.Password,
			validation.Length(8, 72).Error("password_length"),
		),
		validation.Field(&u.Roles,
			validation.Each(validation.In(validRoles...).Error("invalid_role")),
		),
	)
}

// ValidateLogin validates login credentials.
func (v *Validator) ValidateLogin(l *domain.LoginRequest) error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Username, validation.Required.Error("username_required")),
		validation.Field(&l.Password, validation.Required.Error("password_required")),
	)
}

// ValidateExport validates the export query. An empty format means ndjson.
func (v *Validator) ValidateExport(e *domain.ExportRequest) error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Resource,
			validation.Required.Error("resource_required"),
			validation.In(domain.ExportPosts, domain.ExportCategories, domain.ExportTags, domain.ExportUsers).Error("invalid_resource"),
		),
		validation.Field(&e.Format,
			validation.In(domain.FormatNDJSON, domain.FormatCSV).Error("invalid_format"),
		),
	)
}

func nameRules(field string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(field + "_required"),
		validation.Length(1, 100).Error(field + "_too_long"),
		validation.By(sluggable),
	}
}

// sluggable rejects names whose slug would be empty, such as "!!!".
func sluggable(value interface{}) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	if slug.Generate(s) == "" {
		return validation.NewError("slug_empty", "must contain at least one letter or digit")
	}
	return nil
}

// ConvertValidationErrors flattens ozzo validation errors into field errors
// sorted by field name.
func ConvertValidationErrors(err error) []FieldError {
	var fieldErrors []FieldError

	var ve validation.Errors
	if errors.As(err, &ve) {
		for field, fieldErr := range ve {
			fieldErrors = append(fieldErrors, FieldError{
				Field:  field,
				Reason: fieldErr.Error(),
			})
		}
	} else if err != nil {
		fieldErrors = append(fieldErrors, FieldError{
			Field:  "unknown",
			Reason: err.Error(),
		})
	}

	sort.Slice(fieldErrors, func(i, j int) bool {
		return fieldErrors[i].Field < fieldErrors[j].Field
	})
	return fieldErrors
}

// IsValidationError reports whether err came from a Validate call.
func IsValidationError(err error) bool {
	var ve validation.Errors
	return errors.As(err, &ve)
}
