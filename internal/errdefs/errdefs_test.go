package errdefs

import (
	"errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New(CodeConfigNotFound)
	if err.Code != CodeConfigNotFound {
		t.Errorf("Code = %q", err.Code)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q", err.Category)
	}
	if err.Message == "" || err.Detail == "" {
		t.Errorf("template not applied: %+v", err)
	}
	if got := err.Error(); !strings.HasPrefix(got, CodeConfigNotFound+": ") {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("Z999")
	if err.Code != "Z999" {
		t.Errorf("Code = %q", err.Code)
	}
	if err.Message == "" {
		t.Error("unknown code produced an empty message")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRoutes, "route %q is broken", "routes/gists")
	if err.Code != "" {
		t.Errorf("Code = %q, want none", err.Code)
	}
	if err.Error() != `route "routes/gists" is broken` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapSupportsErrorsIs(t *testing.T) {
	cause := errors.New("permission denied")
	err := New(CodeRouteScan).Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
	var re *Error
	if !errors.As(error(err), &re) || re.Code != CodeRouteScan {
		t.Errorf("errors.As = %+v", re)
	}
}

func TestWithDetailAndSuggestion(t *testing.T) {
	err := New(CodeRouteUnresolved).
		WithDetail("routes/gists/$username has no loader").
		WithSuggestion("register handles for the route id")

	if err.Detail != "routes/gists/$username has no loader" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion == "" {
		t.Error("suggestion lost")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()

	err := New(CodeConfigInvalid).
		Wrap(errors.New("unexpected token")).
		WithSuggestion("check remix.json")
	out := err.Format()

	for _, want := range []string{
		"ERROR",
		CodeConfigInvalid,
		err.Message,
		"cause: unexpected token",
		"hint: check remix.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}
