package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"meetingbook/shared/constant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const imageDirectory = "rooms"

// uploadImage stores the photo under a random name and returns its public URL.
// No upload yields an empty URL.
func (s *serviceImpl) uploadImage(ctx context.Context, header *multipart.FileHeader, file io.Reader) (string, error) {
	if header == nil || file == nil {
		return constant.Empty, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read image: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(header.Filename))

	url, err := s.storage.Put(ctx, imageDirectory, name, header.Header.Get(constant.RequestHeaderContentType), data)
	if err != nil {
		log.Error().Err(err).Str("object", name).Msg("failed to upload room image")

		return constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, nil
}

// removeImage is best effort; an orphaned object is only logged.
func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.storage.Remove(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to remove room image")
	}
}
