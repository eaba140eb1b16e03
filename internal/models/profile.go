package models

// Stats are the per-user counters shown on a profile.
type Stats struct {
	PostCount      int64
	FollowerCount  int64
	FollowingCount int64
}

// Profile is everything the profile screen shows about one user.
type Profile struct {
	User         UserSummary
	Stats        Stats
	Posts        []Post
	Relationship Relationship
	// Own is true when the viewer is looking at their own profile.
	Own bool
}
