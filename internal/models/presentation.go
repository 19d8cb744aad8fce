package models

// PresentationState is the single authoritative record of what is live
// right now. It is created once at boot and mutated in place for the
// lifetime of the process; "empty" means hidden with no temporary content.
type PresentationState struct {
	IsPresenting       bool              `json:"isPresenting"`
	IsHidden           bool              `json:"isHidden"`
	CurrentQueueItemID *int64            `json:"currentQueueItemId"`
	CurrentSongSlideID *string           `json:"currentSlideId"`
	LastSongSlideID    *string           `json:"lastSlideId,omitempty"`
	TemporaryContent   *TemporaryContent `json:"temporaryContent"`
	// UpdatedAt is a monotonic millisecond timestamp. Every mutation
	// stamps a value strictly greater than the previous one; clients
	// discard any incoming state whose UpdatedAt is not newer than the
	// one they last applied.
	UpdatedAt int64 `json:"updatedAt"`
}

// EmptyState is the reset shape: nothing selected, nothing shown.
func EmptyState() PresentationState {
	return PresentationState{IsHidden: true}
}

// StatePatch is a partial update to the presentation state. Nil pointer
// fields are left unchanged; the Clear* flags null out their target and
// take precedence over the matching pointer field.
type StatePatch struct {
	IsPresenting       *bool             `json:"isPresenting,omitempty"`
	IsHidden           *bool             `json:"isHidden,omitempty"`
	CurrentQueueItemID *int64            `json:"currentQueueItemId,omitempty"`
	CurrentSongSlideID *string           `json:"currentSlideId,omitempty"`
	LastSongSlideID    *string           `json:"lastSlideId,omitempty"`
	TemporaryContent   *TemporaryContent `json:"temporaryContent,omitempty"`
	ClearQueueItem     bool              `json:"clearQueueItem,omitempty"`
	ClearSongSlide     bool              `json:"clearSlide,omitempty"`
	ClearTemporary     bool              `json:"clearTemporary,omitempty"`
}

// Direction selects which way NavigateTemporary moves.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)
