package constants

// Centralized constants for headers, env keys, routes and shared messages.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "cf_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteAuthLogout         = "/auth/logout"
	RouteVersion            = "/version"
	RoutePlayerProfile      = "/player-profile"
	RouteSessionByCode      = "/sessions/by-code/:joinCode"
	RouteLeaderboard        = "/leaderboard"
	RoutePlayerStats        = "/player-stats"
	RouteOpenSessions       = "/open-sessions"
	RouteSessions           = "/sessions"
	RouteSessionByUUID      = "/sessions/:sessionUUID"
	RouteSessionMessages    = "/sessions/:sessionUUID/messages"
	RouteSessionNodeAction  = "/sessions/:sessionUUID/node-action"
	RouteSessionGearAction  = "/sessions/:sessionUUID/gear-action"
	RouteSessionDiceResult  = "/sessions/:sessionUUID/dice-result"
	RouteSessionTarget      = "/sessions/:sessionUUID/target-action"
	RouteSessionTeamAction  = "/sessions/:sessionUUID/team-action"
	RouteSessionEndTurn     = "/sessions/:sessionUUID/end-turn"
	RouteSessionAutoRun     = "/sessions/:sessionUUID/autorun"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrSessionNotFound  = "Session not found"

	ErrFailedCreateSessionRow = "Failed to create session"
	ErrFailedUpdateSession    = "Failed to update session"
	ErrFailedFetchSessions    = "Failed to fetch sessions"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrEmailRequired          = "email is required"

	ErrSessionNotInProgress = "Session is not in progress"
	ErrInteractionPending   = "An interaction is pending; resolve the dice roll first"
	ErrPlayerIsCaptured     = "You are in custody and cannot act"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateAuth       = "Failed to create session cookie"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldSessionUUID = "session_uuid"
	LogFieldNodeID      = "node_id"
	LogFieldActorID     = "actor_id"
	LogFieldGearID      = "gear_id"
	LogFieldTurn        = "turn"
	LogFieldAddr        = "addr"
)
