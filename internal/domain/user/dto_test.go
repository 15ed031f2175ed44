package user

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{
		Email:       "lohn@example.com",
		Password:    "wechselmich1",
		DisplayName: "Lohnbuchhaltung",
		Role:        string(RoleManager),
		TenantID:    strPtr("5f1c2f5e-0000-4000-8000-000000000001"),
	}

	cases := []struct {
		name    string
		mutate  func(r *CreateUserRequest)
		wantErr bool
	}{
		{
			name:    "valid manager account",
			mutate:  func(r *CreateUserRequest) {},
			wantErr: false,
		},
		{
			name: "admin without tenant",
			mutate: func(r *CreateUserRequest) {
				r.Role = string(RoleAdmin)
				r.TenantID = nil
			},
			wantErr: false,
		},
		{
			name:    "admin bound to a tenant is rejected",
			mutate:  func(r *CreateUserRequest) { r.Role = string(RoleAdmin) },
			wantErr: true,
		},
		{
			name:    "manager without tenant is rejected",
			mutate:  func(r *CreateUserRequest) { r.TenantID = nil },
			wantErr: true,
		},
		{
			name:    "malformed email",
			mutate:  func(r *CreateUserRequest) { r.Email = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "short password",
			mutate:  func(r *CreateUserRequest) { r.Password = "kurz" },
			wantErr: true,
		},
		{
			name:    "unknown role",
			mutate:  func(r *CreateUserRequest) { r.Role = "superuser" },
			wantErr: true,
		},
		{
			name:    "tenant id must be a UUID",
			mutate:  func(r *CreateUserRequest) { r.TenantID = strPtr("tenant-1") },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestUpdateUserRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     UpdateUserRequest
		wantErr bool
	}{
		{
			name:    "empty update is fine",
			req:     UpdateUserRequest{ID: "user-1"},
			wantErr: false,
		},
		{
			name:    "display name change",
			req:     UpdateUserRequest{ID: "user-1", DisplayName: strPtr("Neue Anzeige")},
			wantErr: false,
		},
		{
			name:    "blank display name is rejected",
			req:     UpdateUserRequest{ID: "user-1", DisplayName: strPtr("  ")},
			wantErr: true,
		},
		{
			name:    "unknown role",
			req:     UpdateUserRequest{ID: "user-1", Role: strPtr("root")},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     UpdateUserRequest{ID: "user-1", Password: strPtr("kurz")},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
