package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validAddress() Address {
	return Address{
		FullName:     "Priya R",
		PhoneNumber:  "98765 43210",
		AddressLine1: "12 Anna Salai",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600002",
	}
}

func TestValidateAddress_OK(t *testing.T) {
	if err := ValidateAddress(validAddress()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateAddress_Fields(t *testing.T) {
	a := validAddress()
	a.FullName = ""
	a.PhoneNumber = "12345"
	a.Pincode = "6000"
	a.State = ""

	err := ValidateAddress(a)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"fullName":    "Full name is required",
		"phoneNumber": "Enter a valid 10-digit phone number",
		"pincode":     "Enter a valid 6-digit pincode",
		"state":       "State is required",
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}

func TestValidateRegistration(t *testing.T) {
	ok := Registration{Name: "A", Email: "a@b.co", Password: "secret1", Phone: "+91 9876543210"}
	if err := ValidateRegistration(ok); err == nil {
		// +91 prefix makes 12 digits
		t.Fatalf("expected phone with country code to fail")
	}
	ok.Phone = "9876543210"
	if err := ValidateRegistration(ok); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	bad := Registration{Name: "A", Email: "not-an-email", Password: "123", Phone: "9876543210"}
	err := ValidateRegistration(bad)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["email"] == "" || verr.Fields["password"] == "" {
		t.Fatalf("missing fields: %v", verr.Fields)
	}
	if _, ok := verr.Fields["name"]; ok {
		t.Fatalf("name is valid")
	}
}

func TestValidPincode(t *testing.T) {
	for code, want := range map[string]bool{"600001": true, "60001": false, "6000011": false, "60a001": false} {
		if ValidPincode(code) != want {
			t.Fatalf("%q: want %v", code, want)
		}
	}
}
