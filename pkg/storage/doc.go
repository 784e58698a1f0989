// Package storage manages the download directory.
//
// Images are written as {id}.jpg regardless of their actual content type.
// Each write goes to a temporary file in the same directory and is renamed
// into place once the copy completes, so readers never observe a partial
// image and a failed transfer leaves nothing behind.
//
// Usage:
//
//	manager, err := storage.NewManager("pixabay")
//	if err != nil {
//	    return err
//	}
//	size, err := manager.SaveImage(resp.Body, 195893)
package storage
