// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"folio/internal/storage"
)

// maxUploadSize is the largest accepted image (10 MB).
const maxUploadSize = 10 << 20

// allowedMediaTypes are the sniffed content types accepted for upload.
var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaUpload stores an image in object storage and returns its URL as
// JSON, for use in project, post and profile image fields.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.Media == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	contentType := http.DetectContentType(body)
	ext, ok := allowedMediaTypes[contentType]
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed.")
		return
	}

	name := header.Filename
	if filepath.Ext(name) == "" {
		name += ext
	}
	key := storage.ObjectKey(name, time.Now())

	url, err := a.Media.Upload(r.Context(), key, contentType, bytes.NewReader(body), int64(len(body)))
	if err != nil {
		slog.Error("media upload failed", "key", key, "error", err)
		writeJSONError(w, http.StatusBadGateway, "Failed to upload file.")
		return
	}

	slog.Info("media uploaded", "key", key, "size", len(body))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url, "key": key})
}
