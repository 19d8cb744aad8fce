package models

// ScreenType identifies one of the physical display roles.
type ScreenType string

const (
	ScreenPrimary    ScreenType = "primary"
	ScreenStage      ScreenType = "stage"
	ScreenLivestream ScreenType = "livestream"
	ScreenKiosk      ScreenType = "kiosk"
)

// ScreenConfig is the per-screen, per-content-type rendering
// configuration. It is owned by the settings subsystem; the display core
// only reads it (animation durations feed the exit-animation delay).
type ScreenConfig struct {
	ScreenID       string     `json:"screenId"`
	ContentType    RenderType `json:"contentType"`
	TextStyle      string     `json:"textStyle,omitempty"`
	Position       string     `json:"position,omitempty"`
	AnimationInMs  int        `json:"animationInMs"`
	AnimationOutMs int        `json:"animationOutMs"`
	ShowClock      bool       `json:"showClock"`
	UpdatedAt      int64      `json:"updatedAt"`
}
