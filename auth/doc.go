// Package auth issues and validates HS256 bearer tokens for the game API.
//
// Authentication is optional. When the server is configured with a shared
// secret, Middleware rejects requests to protected routes that do not carry
// "Authorization: Bearer <token>" signed with that secret. Agents and tools
// that know the secret mint their own tokens with NewToken.
package auth
