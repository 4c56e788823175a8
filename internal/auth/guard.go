package auth

// Authorize reports whether the caller may operate on a wallet owned by
// ownerID. Kept as a pure function so the check is trivially testable and the
// core services can assume pre-authorized wallet ids.
func Authorize(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}
