package models

import "time"

// Player is a track in the site's music player.
type Player struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Artist    string    `bson:"artist" json:"artist"`
	CoverURL  string    `bson:"coverUrl" json:"coverUrl"`
	MusicURL  string    `bson:"musicFileUrl" json:"musicFileUrl"`
	LrcURL    string    `bson:"lrcUrl,omitempty" json:"lrcUrl,omitempty"`
	IsPublic  bool      `bson:"isPublic" json:"isPublic"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BestAlbum is an entry on the curated best-albums page.
type BestAlbum struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Artist      string    `bson:"artist" json:"artist"`
	CoverURL    string    `bson:"coverUrl" json:"coverUrl"`
	ReleaseDate time.Time `bson:"releaseDate" json:"releaseDate"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BatchResult reports how many documents a batch mutation touched.
type BatchResult struct {
	IDs           []string `json:"ids"`
	AffectedCount int64    `json:"affectedCount"`
}

// UsageSnapshot is a daily record of VPS bandwidth consumption taken
// from the hosting provider API.
type UsageSnapshot struct {
	ID         string    `bson:"_id" json:"id"`
	DataUsed   int64     `bson:"dataUsed" json:"dataUsed"`
	DataLimit  int64     `bson:"dataLimit" json:"dataLimit"`
	RecordedAt time.Time `bson:"recordedAt" json:"recordedAt"`
}
