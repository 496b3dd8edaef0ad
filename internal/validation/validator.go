package validation

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)

// maxNameLength bounds dish names and user names
const maxNameLength = 200

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks request payloads and strips markup from free text
type Validator struct {
	policy *bluemonday.Policy
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes all HTML from s and trims surrounding whitespace. The
// policy escapes entities, which are decoded again since the result is
// stored as plain text.
func (v *Validator) Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

// ValidateDish validates a dish create request
func (v *Validator) ValidateDish(req *models.DishRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, requiredText("name", req.Name, maxNameLength)...)
	errors = append(errors, requiredText("image", req.Image, 0)...)
	errors = append(errors, requiredText("category", req.Category, maxNameLength)...)
	errors = append(errors, requiredText("description", req.Description, 0)...)
	errors = append(errors, validatePrice(req.Price)...)

	return errors
}

// ValidateDishUpdate validates the fields present in a dish replace
func (v *Validator) ValidateDishUpdate(u *models.DishUpdate) []ValidationError {
	var errors []ValidationError

	if u.Name != nil {
		errors = append(errors, requiredText("name", *u.Name, maxNameLength)...)
	}
	if u.Image != nil {
		errors = append(errors, requiredText("image", *u.Image, 0)...)
	}
	if u.Category != nil {
		errors = append(errors, requiredText("category", *u.Category, maxNameLength)...)
	}
	if u.Description != nil {
		errors = append(errors, requiredText("description", *u.Description, 0)...)
	}
	if u.Price != nil {
		errors = append(errors, validatePrice(*u.Price)...)
	}

	return errors
}

// ValidateComment validates a comment append. The text is sanitised in place.
func (v *Validator) ValidateComment(req *models.CommentRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateRating(req.Rating)...)

	req.Comment = v.Sanitize(req.Comment)
	errors = append(errors, requiredText("comment", req.Comment, models.MaxCommentLength)...)

	return errors
}

// ValidateCommentUpdate validates a comment update. Zero ratings and empty
// text mean "unchanged" and are cleared to nil.
func (v *Validator) ValidateCommentUpdate(u *models.CommentUpdate) []ValidationError {
	var errors []ValidationError

	if u.Rating != nil {
		if *u.Rating == 0 {
			u.Rating = nil
		} else {
			errors = append(errors, validateRating(*u.Rating)...)
		}
	}

	if u.Comment != nil {
		text := v.Sanitize(*u.Comment)
		if text == "" {
			u.Comment = nil
		} else {
			u.Comment = &text
			errors = append(errors, requiredText("comment", text, models.MaxCommentLength)...)
		}
	}

	return errors
}

// ValidateSignup validates a signup request
func (v *Validator) ValidateSignup(req *models.SignupRequest) []ValidationError {
	var errors []ValidationError

	if req.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if !usernameRegex.MatchString(req.Username) {
		errors = append(errors, ValidationError{
			Field:   "username",
			Message: "username must be 3-32 letters, digits, dots, dashes or underscores",
			Value:   req.Username,
		})
	}

	if utf8.RuneCountInString(req.Password) < models.MinPasswordLength {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", models.MinPasswordLength),
		})
	}

	req.Firstname = v.Sanitize(req.Firstname)
	req.Lastname = v.Sanitize(req.Lastname)
	if utf8.RuneCountInString(req.Firstname) > maxNameLength {
		errors = append(errors, ValidationError{Field: "firstname", Message: "firstname is too long"})
	}
	if utf8.RuneCountInString(req.Lastname) > maxNameLength {
		errors = append(errors, ValidationError{Field: "lastname", Message: "lastname is too long"})
	}

	return errors
}

// requiredText checks a non-blank value no longer than max runes (0 = unbounded)
func requiredText(field, value string, max int) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{Field: field, Message: field + " is required"}}
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds maximum of %d characters", field, max),
		}}
	}
	return nil
}

func validatePrice(price float64) []ValidationError {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return []ValidationError{{Field: "price", Message: "price must be a non-negative amount", Value: price}}
	}
	return nil
}

func validateRating(rating int) []ValidationError {
	if rating < models.MinRating || rating > models.MaxRating {
		return []ValidationError{{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating),
			Value:   rating,
		}}
	}
	return nil
}
