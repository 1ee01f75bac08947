package devserver

// Route path constants for the backend wire contract
const (
	RouteAuthLogin          = "/auth/login"
	RouteAuthRegister       = "/auth/register"
	RouteAuthRefresh        = "/auth/refresh"
	RouteAuthLogout         = "/auth/logout"
	RouteAuthForgotPassword = "/auth/forgot-password"
	RouteAuthResetPassword  = "/auth/reset-password"

	RouteUsersMe       = "/users/me"
	RouteUsersMeAvatar = "/users/me/avatar"
	RouteUserProfile   = "/users/{id}"

	RouteResources = "/resources"
	RouteResource  = "/resources/{id}"
)
