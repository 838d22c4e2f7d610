package models

// Descriptor is the entitlement metadata the download gate needs about a
// document.
//
//   - IsPremium requires an authenticated identity.
//   - Score is the point cost; 0 means no balance check.
//
// A document with IsPremium == false and Score == 0 is free for anyone.
type Descriptor struct {
	DocumentID ID
	Title      string
	IsPremium  bool
	Score      int64
	ContentURL string
	FileName   string
}

// RequiresIdentity reports whether an anonymous caller must be refused.
func (d Descriptor) RequiresIdentity() bool {
	return d.IsPremium || d.Score > 0
}

// RequiresPayment reports whether the balance must be checked and charged.
func (d Descriptor) RequiresPayment() bool {
	return d.Score > 0
}
