package dto

type ReactionRequest struct {
	ReactionType string `json:"reaction_type" binding:"required,oneof=like dislike"`
}

// ReactionResult is the design's reaction state after a toggle.
type ReactionResult struct {
	Removed       bool   `json:"removed"`
	ReactionType  string `json:"reaction_type"`
	LikesCount    int    `json:"likes_count"`
	DislikesCount int    `json:"dislikes_count"`
	Liked         bool   `json:"liked"`
	Disliked      bool   `json:"disliked"`
}

type ReactionState struct {
	LikesCount    int     `json:"likes_count"`
	DislikesCount int     `json:"dislikes_count"`
	UserReaction  *string `json:"user_reaction"`
}
