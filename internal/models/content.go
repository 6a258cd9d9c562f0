package models

import "github.com/lib/pq"

type NoticeType string

const (
	NoticeWanted  NoticeType = "WANTED"
	NoticeMissing NoticeType = "MISSING"
	NoticeAlert   NoticeType = "ALERT"
)

// Notice is a public safety announcement shown on the home page.
type Notice struct {
	ID          string     `gorm:"primaryKey" json:"id" yaml:"id"`
	Type        NoticeType `gorm:"type:text;not null" json:"type" yaml:"type"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `gorm:"type:text" json:"description" yaml:"description"`
	ImageURL    string     `json:"imageUrl" yaml:"imageUrl"`
	Date        string     `json:"date" yaml:"date"`
	IsPublished bool       `json:"isPublished" yaml:"isPublished"`
}

// BlogSummary is an editorial teaser.
type BlogSummary struct {
	ID       string         `gorm:"primaryKey" json:"id" yaml:"id"`
	Title    string         `json:"title" yaml:"title"`
	Summary  string         `gorm:"type:text" json:"summary" yaml:"summary"`
	ImageURL string         `json:"imageUrl" yaml:"imageUrl"`
	Date     string         `json:"date" yaml:"date"`
	Author   string         `json:"author" yaml:"author"`
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags,omitempty" yaml:"tags"`
}
