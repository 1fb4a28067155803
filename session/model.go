package session

// Token defines a public type used by adminauth APIs.
//
// Token instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Token struct {
	Value  string
	UserID int64

	CreatedAt int64
	ExpiresAt int64
}
