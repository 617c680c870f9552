package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramRole   = "role"
	paramUserID = "user_id"

	checkModeAny = "any"
	checkModeAll = "all"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidRole             = "invalid role"
	msgInvalidUserID           = "invalid user_id"
	msgUserNotAuthenticated    = "user not authenticated"
	msgAssignmentNotFound      = "user has no role assignment"
	msgCannotGrantRole         = "you cannot grant a role with permissions you do not hold"
	msgCannotManageUser        = "you cannot change the role of a user with permissions you do not hold"
	msgSuperAdminGrantDenied   = "granting SUPER_ADMIN requires settings:admin"
	msgLastSuperAdmin          = "cannot remove the last SUPER_ADMIN"
	msgAssignmentRemoved       = "role assignment removed"
	msgCheckFormAmbiguous      = "provide either permissions or resource and action, not both"
	msgCheckFormMissing        = "provide permissions or resource and action"
	msgCheckModeInvalid        = "mode must be \"any\" or \"all\""
	msgLoadAssignmentsFail     = "failed to load role assignments"
	msgSaveAssignmentFail      = "failed to save role assignment"
	msgRemoveAssignmentFail    = "failed to remove role assignment"
)
