package storage

import (
	"context"
	"strings"
	"testing"

	"anoa.com/hennahub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/hennahub/designs/17-rose.webp": "hennahub/designs/17-rose",
		"https://res.cloudinary.com/demo/image/upload/hennahub/profiles/me.png":            "hennahub/profiles/me",
		"https://res.cloudinary.com/demo/image/upload/vine.png":                            "vine",
		"https://example.com/no-upload-segment/a.png":                                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicIDFromURL(in), in)
	}
}

func TestCheckImageName(t *testing.T) {
	assert.NoError(t, CheckImageName("bridal.JPG"))
	assert.ErrorIs(t, CheckImageName("notes.pdf"), apperror.ErrInvalidInput)
}

func TestDisabledStorage(t *testing.T) {
	t.Setenv("CLOUDINARY_URL", "")

	s, err := NewCloudinaryStorage("hennahub")
	require.NoError(t, err)

	_, err = s.UploadImage(context.Background(), strings.NewReader("x"), "designs", "a.png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.NoError(t, s.DeleteImage(context.Background(), "https://res.cloudinary.com/demo/image/upload/a.png"))
}
