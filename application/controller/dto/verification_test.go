package dto

import (
	"strings"
	"testing"

	"verifid.io/infrastructure/validator"
)

func TestVerifyFacesDTOValidation(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF}

	tests := []struct {
		name      string
		payload   VerifyFacesDTO
		wantError string
	}{
		{"valid payload", VerifyFacesDTO{UserID: "CUST-2041.a", LiveImage: image, ReferenceImage: image}, ""},
		{"missing user id", VerifyFacesDTO{LiveImage: image, ReferenceImage: image}, "UserID"},
		{"user id with illegal characters", VerifyFacesDTO{UserID: "cust 2041!", LiveImage: image, ReferenceImage: image}, "UserID"},
		{"user id too long", VerifyFacesDTO{UserID: strings.Repeat("a", 51), LiveImage: image, ReferenceImage: image}, "UserID"},
		{"missing live image", VerifyFacesDTO{UserID: "CUST-2041", ReferenceImage: image}, "LiveImage"},
		{"missing reference image", VerifyFacesDTO{UserID: "CUST-2041", LiveImage: image}, "ReferenceImage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidatorInstance.ValidateStruct(tt.payload)
			if tt.wantError == "" {
				if errs != nil {
					t.Fatalf("expected valid payload, got %v", *errs)
				}
				return
			}
			if errs == nil {
				t.Fatal("expected validation errors, got none")
			}
			found := false
			for _, err := range *errs {
				if strings.Contains(err.Error(), tt.wantError) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error mentioning %s, got %v", tt.wantError, *errs)
			}
		})
	}
}

func TestBankerDecideDTOValidation(t *testing.T) {
	reasoning := "customer matched after recapture"

	tests := []struct {
		name    string
		payload BankerDecideDTO
		valid   bool
	}{
		{"banker approve", BankerDecideDTO{DecisionID: "01J3", Action: BankerApprove, Reasoning: &reasoning}, true},
		{"banker reject without reasoning", BankerDecideDTO{DecisionID: "01J3", Action: BankerReject}, true},
		{"request recapture", BankerDecideDTO{DecisionID: "01J3", Action: RequestRecapture}, true},
		{"unknown action", BankerDecideDTO{DecisionID: "01J3", Action: "ESCALATE"}, false},
		{"missing decision id", BankerDecideDTO{Action: BankerApprove}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidatorInstance.ValidateStruct(tt.payload)
			if tt.valid && errs != nil {
				t.Errorf("expected valid payload, got %v", *errs)
			}
			if !tt.valid && errs == nil {
				t.Error("expected validation errors, got none")
			}
		})
	}
}
