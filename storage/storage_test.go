package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealImageObjectName(t *testing.T) {
	now := time.Unix(1700000000, 0)

	name := DealImageObjectName(12, "Photo.JPG", now)
	assert.True(t, strings.HasPrefix(name, "deals/12/1700000000-"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)

	assert.True(t, strings.HasSuffix(DealImageObjectName(1, "noext", now), ".bin"))
	assert.NotEqual(t, DealImageObjectName(1, "a.png", now), DealImageObjectName(1, "a.png", now))
}

func TestGCSObjectName(t *testing.T) {
	got, err := gcsObjectName("media", "https://storage.googleapis.com/media/deals/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "deals/1/a.png", got)

	got, err = gcsObjectName("media", "https://media.storage.googleapis.com/deals/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "deals/1/a.png", got)

	_, err = gcsObjectName("media", "https://storage.googleapis.com/other/deals/1/a.png")
	assert.EqualError(t, err, "url bucket mismatch")

	_, err = gcsObjectName("media", "https://example.com/a.png")
	assert.EqualError(t, err, "not a gcs public url")
}

func TestR2RoundTrip(t *testing.T) {
	url := r2PublicURL("https://files.example.com", "media", "deals/3/x.webp")
	assert.Equal(t, "https://files.example.com/media/deals/3/x.webp", url)

	got, err := r2ObjectName("https://files.example.com", "media", url)
	require.NoError(t, err)
	assert.Equal(t, "deals/3/x.webp", got)

	got, err = r2ObjectName("", "media", "https://pub-123.r2.dev/deals/3/x.webp")
	require.NoError(t, err)
	assert.Equal(t, "deals/3/x.webp", got)

	_, err = r2ObjectName("", "media", "ftp://nowhere")
	assert.Error(t, err)
}

func TestR2ObjectNameRejectsForeignURLs(t *testing.T) {
	foreign := "https://attacker.example.net/deals/7/1700000000-abc.png"

	_, err := r2ObjectName("https://files.example.com", "media", foreign)
	assert.Error(t, err)

	_, err = r2ObjectName("", "media", foreign)
	assert.Error(t, err)

	_, err = r2ObjectName("https://files.example.com", "media", "https://files.example.com/other/deals/7/a.png")
	assert.Error(t, err)

	_, err = r2ObjectName("https://files.example.com", "media", "https://files.example.com/media/")
	assert.Error(t, err)

	_, err = r2ObjectName("", "media", "https://pub-123.r2.dev/")
	assert.Error(t, err)
}
