package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ava-bijoux/ava-next/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/products/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.AssignAdminRole(1, "ops"); err != nil {
		t.Fatalf("assign admin role failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/products/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/products/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSyncAdminRoleReplacesPreviousRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("finance", "/admin/payouts", "GET"); err != nil {
		t.Fatalf("grant finance policy failed: %v", err)
	}

	if err := svc.SyncAdminRole(2, "ops"); err != nil {
		t.Fatalf("sync first role failed: %v", err)
	}
	if err := svc.SyncAdminRole(2, "finance"); err != nil {
		t.Fatalf("sync second role failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/payouts", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roleAdmin, err := NormalizeRole(constants.AdminRoleAdmin)
	if err != nil {
		t.Fatalf("normalize role failed: %v", err)
	}
	roleOps, err := NormalizeRole(constants.AdminRoleOperations)
	if err != nil {
		t.Fatalf("normalize role failed: %v", err)
	}

	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{roleAdmin, "/admin/orders/:id/status", "PATCH", true},
		{roleAdmin, "/admin/commissions/process-payout/:id", "POST", true},
		{roleAdmin, "/admin/salons/:id/status", "PATCH", true},
		{roleOps, "/admin/orders", "GET", true},
		{roleOps, "/admin/orders/:id/status", "PATCH", true},
		{roleOps, "/admin/commissions/process-payout/:id", "POST", false},
		{roleOps, "/admin/salons/:id", "PUT", false},
	}
	for i, tc := range cases {
		allow, err := svc.Enforce(tc.role, tc.object, tc.action)
		if err != nil {
			t.Fatalf("case %d: enforce failed: %v", i, err)
		}
		if allow != tc.want {
			t.Fatalf("case %d: %s %s %s: got %v want %v", i, tc.role, tc.action, tc.object, allow, tc.want)
		}
	}
}

func TestBootstrapBuiltinRolesIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("first bootstrap failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("/api/v1/admin/orders"); got != "/admin/orders" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeObject("admin/orders"); got != "/admin/orders" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeAction(" patch "); got != "PATCH" {
		t.Fatalf("unexpected action: %s", got)
	}

	role, err := NormalizeRole("Operations")
	if err != nil {
		t.Fatalf("normalize role failed: %v", err)
	}
	if role != "role:operations" {
		t.Fatalf("unexpected role: %s", role)
	}
	if normalized, err := NormalizeRole("role:ops"); err != nil || normalized != "role:ops" {
		t.Fatalf("prefixed role must pass through, got %s (%v)", normalized, err)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("expected error for empty role")
	}
	if got := SubjectForAdmin(7); got != "admin:7" {
		t.Fatalf("unexpected subject: %s", got)
	}
}
