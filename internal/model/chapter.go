package model

import "time"

// Chapter is one entry of the chapter catalog.
type Chapter struct {
	ID        int       `json:"-"`
	Subject   string    `json:"subject"`
	Standard  string    `json:"standard"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// ChapterTree groups chapter names by subject, then standard.
type ChapterTree map[string]map[string][]string

// ProposeChapterRequest registers a chapter typed by an author that the catalog does not know yet.
type ProposeChapterRequest struct {
	Subject  string `json:"subject" binding:"required,subject"`
	Standard string `json:"standard" binding:"required,standard"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
}
