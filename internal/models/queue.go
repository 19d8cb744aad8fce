package models

// QueueItemType tags the kind of a staged queue item.
type QueueItemType string

const (
	QueueItemSong         QueueItemType = "song"
	QueueItemSlide        QueueItemType = "slide"
	QueueItemBible        QueueItemType = "bible"
	QueueItemBiblePassage QueueItemType = "bible_passage"
)

// QueueItem is one operator-staged presentable item. The payload matching
// Type is denormalized so a display can render without a further join.
type QueueItem struct {
	ID           int64              `json:"id"`
	Type         QueueItemType      `json:"type"`
	SortKey      int                `json:"sortKey"`
	Song         *QueueSong         `json:"song,omitempty"`
	Slide        *QueueSlide        `json:"slide,omitempty"`
	Bible        *QueueBible        `json:"bible,omitempty"`
	BiblePassage *QueueBiblePassage `json:"biblePassage,omitempty"`
}

// QueueSong is a staged song with its full slide list.
//
// KeyLine, when set, is repeated at the top of the first slide.
// NextItemLabel names the follow-on item configured for this song, shown
// as the preview after the last slide.
type QueueSong struct {
	SongID        int64       `json:"songId"`
	Title         string      `json:"title"`
	Slides        []SongSlide `json:"slides"`
	KeyLine       string      `json:"keyLine,omitempty"`
	NextItemLabel string      `json:"nextItemLabel,omitempty"`
}

// SlideKind distinguishes plain announcements from the youth verses
// program, both staged as "slide" queue items.
type SlideKind string

const (
	SlideKindAnnouncement  SlideKind = "announcement"
	SlideKindVerseteTineri SlideKind = "versete_tineri"
)

// QueueSlide is a staged announcement slide or versete-tineri program.
type QueueSlide struct {
	Kind        SlideKind     `json:"kind"`
	Content     string        `json:"content,omitempty"`
	Entries     []VersetEntry `json:"entries,omitempty"`
	EntryIndex  int           `json:"entryIndex,omitempty"`
	PersonLabel string        `json:"personLabel,omitempty"`
}

// QueueBible is a staged single verse. Reference may carry a trailing
// translation code ("John 3:16 - KJV") that displays strip.
type QueueBible struct {
	VerseID       int64  `json:"verseId"`
	TranslationID string `json:"translationId"`
	Reference     string `json:"reference"`
	Text          string `json:"text"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// QueueBiblePassage is a staged verse run, presented one verse at a time.
type QueueBiblePassage struct {
	Reference    string         `json:"reference"`
	Verses       []PassageVerse `json:"verses"`
	CurrentIndex int            `json:"currentIndex"`
}
