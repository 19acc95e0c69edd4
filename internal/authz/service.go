package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	adminSubjectFmt = "admin:%d"
	rolePrefix      = "role:"
	roleAnchor      = "role:__anchor__"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy one permission rule
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin-backed back-office authorization
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService creates the authorization service on the shared database
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce runs one authorization check
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	action := NormalizeAction(act)
	if action == "" {
		return false, fmt.Errorf("authz action is required")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), action)
}

// EnforceAdmin checks one admin account against an object and action
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForAdmin(adminID), obj, act)
}

// AssignAdminRole links an admin account to a role
func (s *Service) AssignAdminRole(adminID uint, role string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	changed, err := s.enforcer.AddGroupingPolicy(SubjectForAdmin(adminID), normalized)
	if err != nil {
		return fmt.Errorf("assign admin role failed: %w", err)
	}
	if changed {
		return s.saveAndReload()
	}
	return nil
}

// RevokeAdminRole unlinks an admin account from a role
func (s *Service) RevokeAdminRole(adminID uint, role string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	changed, err := s.enforcer.RemoveGroupingPolicy(SubjectForAdmin(adminID), normalized)
	if err != nil {
		return fmt.Errorf("revoke admin role failed: %w", err)
	}
	if changed {
		return s.saveAndReload()
	}
	return nil
}

// SyncAdminRole replaces all role bindings of an admin with one role
func (s *Service) SyncAdminRole(adminID uint, role string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}

	subject := SubjectForAdmin(adminID)
	current, err := s.enforcer.GetRolesForUser(subject)
	if err != nil {
		return fmt.Errorf("list admin roles failed: %w", err)
	}

	changed := false
	for _, existing := range current {
		if existing == normalized {
			continue
		}
		removed, err := s.enforcer.RemoveGroupingPolicy(subject, existing)
		if err != nil {
			return fmt.Errorf("revoke admin role failed: %w", err)
		}
		if removed {
			changed = true
		}
	}

	added, err := s.enforcer.AddGroupingPolicy(subject, normalized)
	if err != nil {
		return fmt.Errorf("assign admin role failed: %w", err)
	}
	if added {
		changed = true
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}

// GrantRolePolicy allows a role to perform an action on an object
func (s *Service) GrantRolePolicy(role, object, action string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return fmt.Errorf("authz action is required")
	}
	changed, err := s.enforcer.AddPolicy(normalized, NormalizeObject(object), act)
	if err != nil {
		return fmt.Errorf("grant role policy failed: %w", err)
	}
	if changed {
		return s.saveAndReload()
	}
	return nil
}

// ReloadPolicy reloads rules from storage
func (s *Service) ReloadPolicy() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.LoadPolicy()
}

func (s *Service) saveAndReload() error {
	if err := s.enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("save authz policy failed: %w", err)
	}
	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("reload authz policy failed: %w", err)
	}
	return nil
}

// SubjectForAdmin builds the casbin subject of one admin account
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf(adminSubjectFmt, adminID)
}

// NormalizeRole validates and prefixes a role name
func NormalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	role = strings.TrimPrefix(role, rolePrefix)
	if role == "" {
		return "", fmt.Errorf("role name is required")
	}
	return rolePrefix + role, nil
}

// NormalizeObject keeps policy objects in router-relative form
func NormalizeObject(obj string) string {
	obj = strings.TrimSpace(obj)
	obj = strings.TrimPrefix(obj, apiV1Prefix)
	if obj == "" {
		return "/"
	}
	if !strings.HasPrefix(obj, "/") {
		obj = "/" + obj
	}
	return obj
}

// NormalizeAction uppercases an HTTP verb or wildcard
func NormalizeAction(act string) string {
	return strings.ToUpper(strings.TrimSpace(act))
}
