package models

import "time"

// FollowEdge means Follower follows Followee.
type FollowEdge struct {
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// Relationship is the viewer's confirmed relation to a target user.
type Relationship struct {
	Following bool
}
