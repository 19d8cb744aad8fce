package models

// RenderType is the content type a display renders.
type RenderType string

const (
	RenderEmpty         RenderType = "empty"
	RenderSong          RenderType = "song"
	RenderBible         RenderType = "bible"
	RenderAnnouncement  RenderType = "announcement"
	RenderBiblePassage  RenderType = "bible_passage"
	RenderVerseteTineri RenderType = "versete_tineri"
	RenderScreenShare   RenderType = "screen_share"
	RenderScene         RenderType = "scene"
)

// RenderContent is what the content resolver hands to a renderer: a flat,
// ready-to-draw payload. Resolving the same state against the same queue
// snapshot always yields the same RenderContent.
type RenderContent struct {
	Type          RenderType `json:"type"`
	MainText      string     `json:"mainText,omitempty"`
	SecondaryText string     `json:"secondaryText,omitempty"`
	ReferenceText string     `json:"referenceText,omitempty"`
	TitleText     string     `json:"titleText,omitempty"`
	PersonLabel   string     `json:"personLabel,omitempty"`
	NextPreview   string     `json:"nextPreview,omitempty"`
	SceneID       string     `json:"sceneId,omitempty"`
	SlideIndex    int        `json:"slideIndex,omitempty"`
	SlideCount    int        `json:"slideCount,omitempty"`
}

// EmptyContent is the default render: show nothing.
func EmptyContent() RenderContent {
	return RenderContent{Type: RenderEmpty}
}
