package forms

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sandeepkv93/shophub-client/internal/http/client"
)

func TestValidateAuth(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		form AuthForm
		want FieldErrors
	}{
		{
			name: "register short password",
			mode: ModeRegister,
			form: AuthForm{Name: "A", Email: "a@b.com", Password: "short", ConfirmPassword: "short"},
			want: FieldErrors{FieldPassword: MsgPasswordShort},
		},
		{
			name: "login missing everything",
			mode: ModeLogin,
			form: AuthForm{},
			want: FieldErrors{FieldEmail: MsgEmailRequired, FieldPassword: MsgPasswordRequired},
		},
		{
			name: "bad email",
			mode: ModeLogin,
			form: AuthForm{Email: "ab.com", Password: "longenough"},
			want: FieldErrors{FieldEmail: MsgEmailInvalid},
		},
		{
			name: "register mismatch and no name",
			mode: ModeRegister,
			form: AuthForm{Email: "a@b.com", Password: "longenough", ConfirmPassword: "different1"},
			want: FieldErrors{FieldName: MsgNameRequired, FieldConfirmPassword: MsgPasswordMismatch},
		},
		{
			name: "register missing confirmation",
			mode: ModeRegister,
			form: AuthForm{Name: "A", Email: "a@b.com", Password: "longenough"},
			want: FieldErrors{FieldConfirmPassword: MsgConfirmRequired},
		},
		{
			name: "login ignores register fields",
			mode: ModeLogin,
			form: AuthForm{Email: "a@b.com", Password: "longenough"},
			want: FieldErrors{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateAuth(tc.mode, tc.form)
			if len(got) != len(tc.want) {
				t.Fatalf("ValidateAuth()=%v want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Fatalf("field %s: got %q want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestMapAuthError(t *testing.T) {
	apiErr := func(status int) error {
		return fmt.Errorf("wrapped: %w", &client.Error{Operation: "auth.login", Status: status})
	}
	cases := []struct {
		name string
		mode Mode
		err  error
		want string
	}{
		{name: "conflict", mode: ModeRegister, err: apiErr(http.StatusConflict), want: MsgAccountExists},
		{name: "not found on login", mode: ModeLogin, err: apiErr(http.StatusNotFound), want: MsgUserNotFound},
		{name: "not found on register", mode: ModeRegister, err: apiErr(http.StatusNotFound), want: MsgGeneric},
		{name: "unauthorized", mode: ModeLogin, err: apiErr(http.StatusUnauthorized), want: MsgBadCredentials},
		{name: "bad request", mode: ModeLogin, err: apiErr(http.StatusBadRequest), want: MsgBadFormat},
		{name: "server error", mode: ModeLogin, err: apiErr(http.StatusInternalServerError), want: MsgGeneric},
		{name: "network", mode: ModeLogin, err: errors.New("dial tcp: refused"), want: MsgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapAuthError(tc.mode, tc.err)
			if got[FieldEmail] != tc.want {
				t.Fatalf("email message=%q want %q", got[FieldEmail], tc.want)
			}
			if _, ok := got[FieldPassword]; ok {
				t.Fatal("password field must stay untouched")
			}
		})
	}
}

func TestValidateResetPassword(t *testing.T) {
	if got := ValidateResetPassword("", "a", "b"); got[FieldConfirmPassword] != MsgPasswordMismatch {
		t.Fatalf("mismatch must be reported first, got %v", got)
	}
	if got := ValidateResetPassword(" ", "longenough", "longenough"); got[FieldToken] != MsgTokenInvalid {
		t.Fatalf("expected token error, got %v", got)
	}
	if got := ValidateResetPassword("tok", "short", "short"); got[FieldPassword] != MsgPasswordShort {
		t.Fatalf("expected length error, got %v", got)
	}
	if got := ValidateResetPassword("tok", "longenough", "longenough"); got.Err() != nil {
		t.Fatalf("expected no errors, got %v", got)
	}
}

func TestValidateUpload(t *testing.T) {
	got := ValidateUpload(UploadForm{Price: "-2"})
	want := FieldErrors{
		FieldName:     MsgProductNameRequired,
		FieldPrice:    MsgPriceInvalid,
		FieldCategory: MsgCategoryRequired,
		FieldImage:    MsgImageRequired,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: got %q want %q", k, got[k], v)
		}
	}
	if got := ValidateUpload(UploadForm{Name: "Mug", Price: "3.5", Category: "Kitchen", ImagePath: "mug.png"}); got.Err() != nil {
		t.Fatalf("expected valid form, got %v", got)
	}
}

func TestFieldErrorsErrorIsSorted(t *testing.T) {
	errs := FieldErrors{FieldPassword: "p", FieldEmail: "e"}
	if errs.Error() != "email: e; password: p" {
		t.Fatalf("unexpected error string %q", errs.Error())
	}
	if (FieldErrors{}).Err() != nil {
		t.Fatal("empty field errors must be nil error")
	}
}

func FuzzValidateAuthNeverPanics(f *testing.F) {
	f.Add("a@b.com", "short")
	f.Add("", "")
	f.Add("üñí@çødé.com", "longenough")

	f.Fuzz(func(t *testing.T, email, password string) {
		errs := ValidateAuth(ModeLogin, AuthForm{Email: email, Password: password})
		if len(password) >= MinPasswordLength {
			if _, ok := errs[FieldPassword]; ok {
				t.Fatalf("password of length %d must pass", len(password))
			}
		}
	})
}
