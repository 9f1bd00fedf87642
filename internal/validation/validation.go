// Package validation holds the checks run on user input before anything is
// sent to the backend: resume files, email addresses and passwords.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/internal/config"
)

// Messages returned by the validators.
const (
	MsgFileType         = "Please upload a PDF or Word document (.pdf, .doc, .docx)."
	MsgFileEmpty        = "The selected file is empty."
	MsgEmailRequired    = "Email is required."
	MsgEmailInvalid     = "Please enter a valid email address."
	MsgPasswordRequired = "Password is required."
	MsgPasswordTooShort = "Password must be at least 6 characters."
)

// MinPasswordLength is the shortest password the forms accept.
const MinPasswordLength = 6

// emailPattern is deliberately loose: something@something.something.
// \p{Z} covers Unicode spaces such as U+00A0 that \s does not.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(fmt.Sprintf("register looseemail: %v", err))
	}
	return v
}

// File describes a candidate resume
type File struct {
	Name string
	Type string // MIME type
	Size int64
}

// Rules are the upload constraints checked by ValidateFile
type Rules struct {
	MaxFileSize  int64
	AllowedTypes []string
}

// NewRules builds Rules from the upload configuration.
func NewRules(cfg config.Upload) Rules {
	return Rules{
		MaxFileSize:  cfg.MaxFileSize,
		AllowedTypes: append([]string(nil), cfg.AllowedTypes...),
	}
}

// DefaultRules returns PDF/DOC/DOCX up to 10 MiB.
func DefaultRules() Rules {
	return NewRules(config.Default().Upload)
}

// ValidateFile checks type, then maximum size, then emptiness, and returns
// the first violation. A nil error means the file can be uploaded.
func (r Rules) ValidateFile(f File) error {
	if !r.allowed(f.Type) {
		return apperr.New(apperr.KindFile, MsgFileType)
	}
	if f.Size > r.MaxFileSize {
		return apperr.New(apperr.KindFile, r.tooLargeMessage())
	}
	if f.Size <= 0 {
		return apperr.New(apperr.KindFile, MsgFileEmpty)
	}
	return nil
}

func (r Rules) allowed(contentType string) bool {
	for _, t := range r.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func (r Rules) tooLargeMessage() string {
	return fmt.Sprintf("File is too large. Maximum size is %s.", humanize.IBytes(uint64(r.MaxFileSize)))
}

// ValidateEmail reports whether value looks like an email address once
// surrounding whitespace is removed. The pattern is permissive and does not
// implement RFC 5322.
func ValidateEmail(value string) bool {
	return validate.Var(value, "looseemail") == nil
}

// ValidatePassword returns nil for passwords of at least six characters.
func ValidatePassword(value string) error {
	if validate.Var(value, "required") != nil {
		return apperr.New(apperr.KindValidation, MsgPasswordRequired)
	}
	if validate.Var(value, fmt.Sprintf("min=%d", MinPasswordLength)) != nil {
		return apperr.New(apperr.KindValidation, MsgPasswordTooShort)
	}
	return nil
}

// Credentials is the signup/login form
type Credentials struct {
	Email    string `validate:"required,looseemail"`
	Password string `validate:"required,min=6"`
}

// Validate returns the first violated rule of the form, email first.
func (c Credentials) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Wrap(apperr.KindValidation, apperr.GenericMessage, err)
	}

	fe := fieldErrs[0]
	switch fe.Field() + "." + fe.Tag() {
	case "Email.required":
		return apperr.New(apperr.KindValidation, MsgEmailRequired)
	case "Email.looseemail":
		return apperr.New(apperr.KindValidation, MsgEmailInvalid)
	case "Password.required":
		return apperr.New(apperr.KindValidation, MsgPasswordRequired)
	default:
		return apperr.New(apperr.KindValidation, MsgPasswordTooShort)
	}
}

// Normalized returns the credentials as they are sent to the backend.
func (c Credentials) Normalized() Credentials {
	return Credentials{Email: strings.TrimSpace(c.Email), Password: c.Password}
}
