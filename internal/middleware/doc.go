// Package middleware holds the gin middleware shared by the HTML and JSON
// routes: sessions carrying status messages, CSRF protection, security
// headers, request ids, the optional basic-auth write guard and read-only
// mode.
//
// Ordering matters. The router installs them as
//
//	RequestID -> SecurityHeaders -> ReadOnly -> CSRF -> SessionLoadSave -> BasicAuth
//
// so that rejected writes never touch the session store and the session
// context is layered on top of the CSRF context.
package middleware
