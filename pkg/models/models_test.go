package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordURLString(t *testing.T) {
	assert.Equal(t, "https://cdn.pixabay.com/a.jpg", Resolved(1, "https://cdn.pixabay.com/a.jpg").URLString())
	assert.Equal(t, "None", Unresolved(2).URLString())

	r := Unresolved(3)
	assert.False(t, r.Resolved)
	assert.Empty(t, r.URL)
	assert.Equal(t, ImageID(3), r.ID)
}

func TestImageIDFileName(t *testing.T) {
	assert.Equal(t, "195893", ImageID(195893).String())
	assert.Equal(t, "195893.jpg", ImageID(195893).FileName())
}

func TestSearchResponseDecode(t *testing.T) {
	body := `{"total":1,"totalHits":1,"hits":[{"id":195893,"largeImageURL":"https://pixabay.com/get/ed6a_1280.jpg","user":"Josch13"}]}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, 195893, resp.Hits[0].ID)
	assert.Equal(t, "https://pixabay.com/get/ed6a_1280.jpg", resp.Hits[0].LargeImageURL)
}
