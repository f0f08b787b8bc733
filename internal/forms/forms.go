package forms

import (
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sandeepkv93/shophub-client/internal/http/client"
)

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldConfirmPassword = "confirmPassword"
	FieldToken           = "token"
	FieldPrice           = "price"
	FieldCategory        = "category"
	FieldImage           = "image"

	MinPasswordLength = 8

	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email format"
	MsgPasswordRequired = "Password is required"
	MsgPasswordShort    = "Password must be at least 8 characters"
	MsgNameRequired     = "Name is required"
	MsgConfirmRequired  = "Please confirm your password"
	MsgPasswordMismatch = "Passwords do not match"
	MsgTokenInvalid     = "Invalid or missing token"

	MsgProductNameRequired = "Product name is required"
	MsgPriceRequired       = "Price is required"
	MsgPriceInvalid        = "Price must be a positive number"
	MsgCategoryRequired    = "Category is required"
	MsgImageRequired       = "Product image is required"

	MsgAccountExists  = "Account already exists"
	MsgUserNotFound   = "User not found"
	MsgBadCredentials = "Invalid Credentials"
	MsgBadFormat      = "Invalid email or password format"
	MsgGeneric        = "Something went wrong. Please try again."
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) Endpoint() string {
	if m == ModeRegister {
		return client.RegisterEndpoint
	}
	return client.LoginEndpoint
}

// FieldErrors maps a form field to the message shown under it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

type AuthForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func ValidateAuth(mode Mode, f AuthForm) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, f.Email)
	switch {
	case f.Password == "":
		errs[FieldPassword] = MsgPasswordRequired
	case len(f.Password) < MinPasswordLength:
		errs[FieldPassword] = MsgPasswordShort
	}
	if mode == ModeRegister {
		if strings.TrimSpace(f.Name) == "" {
			errs[FieldName] = MsgNameRequired
		}
		switch {
		case f.ConfirmPassword == "":
			errs[FieldConfirmPassword] = MsgConfirmRequired
		case f.ConfirmPassword != f.Password:
			errs[FieldConfirmPassword] = MsgPasswordMismatch
		}
	}
	return errs
}

// MapAuthError translates a backend rejection into the message shown under
// the email field. The password field is left untouched.
func MapAuthError(mode Mode, err error) FieldErrors {
	if err == nil {
		return FieldErrors{}
	}
	msg := MsgGeneric
	switch client.StatusCode(err) {
	case http.StatusConflict:
		msg = MsgAccountExists
	case http.StatusNotFound:
		if mode == ModeLogin {
			msg = MsgUserNotFound
		}
	case http.StatusUnauthorized:
		msg = MsgBadCredentials
	case http.StatusBadRequest:
		msg = MsgBadFormat
	}
	return FieldErrors{FieldEmail: msg}
}

func ValidateForgotPassword(email string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	}
	return errs
}

func ValidateResetPassword(token, password, confirm string) FieldErrors {
	errs := FieldErrors{}
	if password != confirm {
		errs[FieldConfirmPassword] = MsgPasswordMismatch
		return errs
	}
	if strings.TrimSpace(token) == "" {
		errs[FieldToken] = MsgTokenInvalid
		return errs
	}
	switch {
	case password == "":
		errs[FieldPassword] = MsgPasswordRequired
	case len(password) < MinPasswordLength:
		errs[FieldPassword] = MsgPasswordShort
	}
	return errs
}

type UploadForm struct {
	Name      string
	Price     string
	Category  string
	ImagePath string
}

func ValidateUpload(f UploadForm) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = MsgProductNameRequired
	}
	price := strings.TrimSpace(f.Price)
	if price == "" {
		errs[FieldPrice] = MsgPriceRequired
	} else if v, err := strconv.ParseFloat(price, 64); err != nil || v <= 0 {
		errs[FieldPrice] = MsgPriceInvalid
	}
	if strings.TrimSpace(f.Category) == "" {
		errs[FieldCategory] = MsgCategoryRequired
	}
	if strings.TrimSpace(f.ImagePath) == "" {
		errs[FieldImage] = MsgImageRequired
	}
	return errs
}

func validateEmail(errs FieldErrors, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs[FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = MsgEmailInvalid
	}
}
