package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

func testAgent() *domain.Agent {
	return &domain.Agent{
		ID:        "agent-1",
		AccountID: "acc-1",
		RoleName:  domain.RoleAdministrator,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 15)

	token, expiresAt, err := tm.GenerateToken(testAgent(), "tenant-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiry should be in the future")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AgentID != "agent-1" {
		t.Errorf("agent id = %q, want agent-1", claims.AgentID)
	}
	if claims.AccountID != "acc-1" {
		t.Errorf("account id = %q, want acc-1", claims.AccountID)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("tenant id = %q, want tenant-1", claims.TenantID)
	}
	if claims.Role != domain.RoleAdministrator {
		t.Errorf("role = %q, want administrator", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 15).GenerateToken(testAgent(), "tenant-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 15).ParseToken(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tm.ParseToken(raw); err == nil {
			t.Errorf("ParseToken(%q) should fail", raw)
		}
	}
}

func TestPrincipalHasPermission(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		perm      string
		want      bool
	}{
		{
			"superadmin holds everything",
			Principal{SubjectType: domain.SubjectTypeSuperadmin},
			domain.PermAdminister, true,
		},
		{
			"administrator default set",
			Principal{SubjectType: domain.SubjectTypeAgent, RoleName: domain.RoleAdministrator},
			domain.PermRoleManage, true,
		},
		{
			"agent default set denies manage",
			Principal{SubjectType: domain.SubjectTypeAgent, RoleName: domain.RoleAgent},
			domain.PermInboxManage, false,
		},
		{
			"agent default set allows view",
			Principal{SubjectType: domain.SubjectTypeAgent, RoleName: domain.RoleAgent},
			domain.PermInboxView, true,
		},
		{
			"custom role overrides default set",
			Principal{
				SubjectType: domain.SubjectTypeAgent,
				RoleName:    domain.RoleAdministrator,
				CustomRole:  &domain.CustomRole{Permissions: []string{domain.PermTeamView}},
			},
			domain.PermRoleManage, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.HasPermission(tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}
