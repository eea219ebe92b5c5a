package constants

// Session and request context keys
const (
	SessionCookieName = "tracker_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyProject = "project"
	ContextKeyRequest = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Projects
const (
	ReferenceCodePrefix       = "CMT"
	ReferenceCodeMaxAttempts  = 5
	DefaultRenewalWindowDays  = 15
	MaxBreakdownItems         = 20
	MaxNotificationFeedLength = 100
)

// Snapshot keys shared by every persistence backend
const (
	SnapshotUsers    = "cmtai_users"
	SnapshotProjects = "cmtai_projects"
)

// Auth
const (
	MinPasswordLength = 6
)
