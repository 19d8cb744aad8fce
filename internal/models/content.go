package models

// ContentVariant tags the active arm of a TemporaryContent union.
type ContentVariant string

const (
	VariantBible         ContentVariant = "bible"
	VariantSong          ContentVariant = "song"
	VariantAnnouncement  ContentVariant = "announcement"
	VariantBiblePassage  ContentVariant = "bible_passage"
	VariantVerseteTineri ContentVariant = "versete_tineri"
	VariantScreenShare   ContentVariant = "screen_share"
	VariantScene         ContentVariant = "scene"
)

// TemporaryContent is an ad hoc override that bypasses the queue: the
// operator jumped to something (a verse from search, a one-off song)
// without staging it. Exactly one payload pointer matching Type is set;
// switching variants replaces the whole value, never merges.
type TemporaryContent struct {
	Type          ContentVariant        `json:"type"`
	Bible         *BibleContent         `json:"bible,omitempty"`
	Song          *SongContent          `json:"song,omitempty"`
	Announcement  *AnnouncementContent  `json:"announcement,omitempty"`
	BiblePassage  *BiblePassageContent  `json:"biblePassage,omitempty"`
	VerseteTineri *VerseteTineriContent `json:"verseteTineri,omitempty"`
	ScreenShare   *ScreenShareContent   `json:"screenShare,omitempty"`
	Scene         *SceneContent         `json:"scene,omitempty"`
}

// Valid reports whether the tagged payload is actually present. Corrupt
// persisted content (tag without payload, unknown tag) is treated as no
// temporary content by callers.
func (tc *TemporaryContent) Valid() bool {
	if tc == nil {
		return false
	}
	switch tc.Type {
	case VariantBible:
		return tc.Bible != nil
	case VariantSong:
		return tc.Song != nil
	case VariantAnnouncement:
		return tc.Announcement != nil
	case VariantBiblePassage:
		return tc.BiblePassage != nil
	case VariantVerseteTineri:
		return tc.VerseteTineri != nil
	case VariantScreenShare:
		return tc.ScreenShare != nil
	case VariantScene:
		return tc.Scene != nil
	}
	return false
}

// BibleContent is a single verse with its primary and optional secondary
// translation text.
type BibleContent struct {
	VerseID       int64  `json:"verseId"`
	TranslationID string `json:"translationId"`
	Book          string `json:"book"`
	Chapter       int    `json:"chapter"`
	Verse         int    `json:"verse"`
	Reference     string `json:"reference"`
	PrimaryText   string `json:"primaryText"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// SongSlide is one block of song lyrics.
type SongSlide struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SongContent is an ad hoc song: ordered slides plus the index of the one
// currently shown. NextItemLabel, when present, names the follow-on item
// used for the end-of-song preview.
type SongContent struct {
	SongID        int64       `json:"songId"`
	Title         string      `json:"title"`
	Slides        []SongSlide `json:"slides"`
	CurrentIndex  int         `json:"currentSlideIndex"`
	NextItemLabel string      `json:"nextItemLabel,omitempty"`
}

// AnnouncementContent is raw announcement text.
type AnnouncementContent struct {
	Content string `json:"content"`
}

// PassageVerse is one verse inside a passage.
type PassageVerse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// BiblePassageContent is an ordered run of verses shown one at a time.
type BiblePassageContent struct {
	Reference    string         `json:"reference"`
	Verses       []PassageVerse `json:"verses"`
	CurrentIndex int            `json:"currentIndex"`
}

// VersetEntry is one memorized-verse entry.
type VersetEntry struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// VerseteTineriContent is the youth memorized-verses program: ordered
// entries presented one at a time with the presenting person's name.
type VerseteTineriContent struct {
	Entries      []VersetEntry `json:"entries"`
	CurrentIndex int           `json:"currentIndex"`
	PersonLabel  string        `json:"personLabel,omitempty"`
}

// ScreenShareContent marks the display as taken over by a shared screen.
type ScreenShareContent struct {
	SourceLabel string `json:"sourceLabel,omitempty"`
}

// SceneContent points at an externally managed scene.
type SceneContent struct {
	SceneID string `json:"sceneId"`
}
