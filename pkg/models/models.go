package models

import "strconv"

// NoneSentinel is the on-disk token written for an image whose URL could not be resolved
const NoneSentinel = "None"

// ImageID is a positive Pixabay image identifier
type ImageID int

func (id ImageID) String() string {
	return strconv.Itoa(int(id))
}

// FileName is the name an image is stored under in the download directory
func (id ImageID) FileName() string {
	return id.String() + ".jpg"
}

// Record pairs an image id with its download URL, if one was resolved
type Record struct {
	ID       ImageID
	URL      string
	Resolved bool
}

// Resolved returns a record carrying a download URL
func Resolved(id ImageID, url string) Record {
	return Record{ID: id, URL: url, Resolved: true}
}

// Unresolved returns a record whose URL is absent
func Unresolved(id ImageID) Record {
	return Record{ID: id}
}

// URLString renders the URL field as persisted: the URL itself or NoneSentinel
func (r Record) URLString() string {
	if !r.Resolved {
		return NoneSentinel
	}
	return r.URL
}

// Hit is a single image entry in a Pixabay API search response
type Hit struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	Type          string `json:"type"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	WebformatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
	User          string `json:"user"`
}

// SearchResponse is the Pixabay API response body
type SearchResponse struct {
	Total     int   `json:"total"`
	TotalHits int   `json:"totalHits"`
	Hits      []Hit `json:"hits"`
}
