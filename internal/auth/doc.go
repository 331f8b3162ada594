// Package auth resolves the calling user for API requests.
//
// Two modes are supported:
//   - "none": no authentication, every request acts as DefaultUserID
//   - "token": requests must carry "Authorization: Bearer <token>" issued by
//     `mediashelf users create`
//
// # Configuration
//
//	AUTH_MODE=none   # Default
//	AUTH_MODE=token
//
// # Usage
//
//	mw := auth.NewMiddleware(usersRepo, cfg.Auth, logger)
//	router.Use(mw.Handler())
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c)  // DefaultUserID in "none" mode
package auth
