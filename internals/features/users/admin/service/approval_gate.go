package service

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursedig_backend/internals/constants"
	auditservice "coursedig_backend/internals/features/audit/service"
	usermodel "coursedig_backend/internals/features/users/auth/model"
	authservice "coursedig_backend/internals/features/users/auth/service"
)

// ActionKind names one elevated action. The kind decides who may invoke it
// and whether its audit row must commit atomically with the mutation.
type ActionKind string

const (
	ActionPromoteAdmin      ActionKind = "USER_PROMOTE_ADMIN"
	ActionDemoteAdmin       ActionKind = "USER_DEMOTE_ADMIN"
	ActionPromoteSuperAdmin ActionKind = "USER_PROMOTE_SUPERADMIN"
	ActionDemoteSuperAdmin  ActionKind = "USER_DEMOTE_SUPERADMIN"
	ActionVerifyEmail       ActionKind = "USER_VERIFY_EMAIL"
	ActionFeaturedRank      ActionKind = "FEATURED_RANK_UPDATE"
)

// MinJustificationLen is the minimum length of the mandatory justification
// text on every elevated action.
const MinJustificationLen = 20

type actionPolicy struct {
	AllowedRoles []string
	// DurableAudit: the mutation and the audit row commit in one transaction.
	// False means the audit write is best-effort (cosmetic/content-ranking
	// actions only).
	DurableAudit bool
}

var policies = map[ActionKind]actionPolicy{
	ActionPromoteAdmin:      {AllowedRoles: constants.SuperAdminOnly, DurableAudit: true},
	ActionDemoteAdmin:       {AllowedRoles: constants.SuperAdminOnly, DurableAudit: true},
	ActionPromoteSuperAdmin: {AllowedRoles: constants.SuperAdminOnly, DurableAudit: true},
	ActionDemoteSuperAdmin:  {AllowedRoles: constants.SuperAdminOnly, DurableAudit: true},
	ActionVerifyEmail:       {AllowedRoles: constants.AdminAndAbove, DurableAudit: true},
	ActionFeaturedRank:      {AllowedRoles: constants.AdminAndAbove, DurableAudit: false},
}

// GateError is a terminal gate failure with a machine-readable code the
// client can branch on without string-matching.
type GateError struct {
	Status  int
	Code    string
	Message string
}

func (e *GateError) Error() string { return e.Code + ": " + e.Message }

var (
	errForbidden = &GateError{
		Status: fiber.StatusForbidden, Code: "FORBIDDEN",
		Message: "You are not allowed to perform this action",
	}
	errJustificationRequired = &GateError{
		Status: fiber.StatusBadRequest, Code: "JUSTIFICATION_REQUIRED",
		Message: "A justification of at least 20 characters is required",
	}
	errSecondFactorRequired = &GateError{
		Status: fiber.StatusBadRequest, Code: "SECOND_FACTOR_REQUIRED",
		Message: "Your secondary password is required for this action",
	}
	errSecondFactorInvalid = &GateError{
		Status: fiber.StatusForbidden, Code: "SECOND_FACTOR_INVALID",
		Message: "The secondary password is incorrect",
	}
	errSelfActionForbidden = &GateError{
		Status: fiber.StatusForbidden, Code: "SELF_ACTION_FORBIDDEN",
		Message: "You cannot perform this action on your own account",
	}
)

// GateRequest carries everything the gate needs to authorize one invocation.
type GateRequest struct {
	Kind           ActionKind
	Actor          *usermodel.UserModel
	TargetUserID   uuid.UUID // uuid.Nil when the action has no user target
	Justification  string
	SecondPassword string
}

// Authorize walks the gate's checks in order and returns the first terminal
// failure, or nil once the invocation is AUTHORIZED. No database write
// happens before this returns nil.
func Authorize(req GateRequest) *GateError {
	policy, ok := policies[req.Kind]
	if !ok {
		return errForbidden
	}

	// START → role check
	allowed := false
	for _, role := range policy.AllowedRoles {
		if req.Actor.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return errForbidden
	}

	// ROLE_OK → justification check
	if len(strings.TrimSpace(req.Justification)) < MinJustificationLen {
		return errJustificationRequired
	}

	// JUSTIFIED → second factor, only when the actor has one configured
	if req.Actor.SecondPasswordHash != nil {
		if strings.TrimSpace(req.SecondPassword) == "" {
			return errSecondFactorRequired
		}
		if !authservice.CheckPassword(*req.Actor.SecondPasswordHash, req.SecondPassword) {
			return errSecondFactorInvalid
		}
	}

	// AUTHORIZED → self-action guard, applied uniformly to every action with
	// a user target
	if req.TargetUserID != uuid.Nil && req.TargetUserID == req.Actor.ID {
		return errSelfActionForbidden
	}

	return nil
}

// RequestMeta captures the caller context recorded with the audit row.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Apply runs the authorized mutation together with its audit write.
// Durable-audit actions wrap both in one transaction: either both commit or
// neither is visible. Best-effort actions run the mutation first and only
// log an audit failure.
func Apply(db *gorm.DB, req GateRequest, meta RequestMeta,
	mutate func(tx *gorm.DB) (before, after map[string]interface{}, err error)) error {

	policy := policies[req.Kind]

	entry := func(before, after map[string]interface{}) auditservice.Entry {
		var target *uuid.UUID
		if req.TargetUserID != uuid.Nil {
			t := req.TargetUserID
			target = &t
		}
		return auditservice.Entry{
			Action:    string(req.Kind),
			ActorID:   req.Actor.ID,
			TargetID:  target,
			Before:    before,
			After:     after,
			Meta:      map[string]interface{}{"justification": req.Justification},
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		}
	}

	if policy.DurableAudit {
		return db.Transaction(func(tx *gorm.DB) error {
			before, after, err := mutate(tx)
			if err != nil {
				return err
			}
			return auditservice.Record(tx, entry(before, after))
		})
	}

	var before, after map[string]interface{}
	err := db.Transaction(func(tx *gorm.DB) error {
		var mErr error
		before, after, mErr = mutate(tx)
		return mErr
	})
	if err != nil {
		return err
	}
	if aErr := auditservice.Record(db, entry(before, after)); aErr != nil {
		log.Printf("[AUDIT] best-effort audit for %s failed: %v", req.Kind, aErr)
	}
	return nil
}
