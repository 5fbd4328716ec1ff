package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Job file uploads are stored as-is; no format parsing happens here.

func (s Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.Store.GetJob(ctx, jobID); err != nil {
		writeStoreErr(w, err)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("missing 'file' field: %w", err))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid file name"))
		return
	}

	key := filepath.Join("jobs", fmt.Sprint(jobID), "files", name)
	if _, err := s.Blobs.Put(key, file); err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("store file: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": name})
}

func (s Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.Store.GetJob(r.Context(), jobID); err != nil {
		writeStoreErr(w, err)
		return
	}
	names, err := s.Blobs.List(filepath.Join("jobs", fmt.Sprint(jobID), "files"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	raw := chi.URLParam(r, "name")
	clean := filepath.Base(filepath.Clean(raw))
	if clean == "." || strings.HasPrefix(clean, "..") {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid file name"))
		return
	}

	relPath := filepath.Join("jobs", fmt.Sprint(jobID), "files", clean)
	if !s.Blobs.Exists(relPath) {
		writeErr(w, http.StatusNotFound, fmt.Errorf("file not found"))
		return
	}
	f, err := s.Blobs.Open(relPath)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	contentType := http.DetectContentType(buf[:n])
	if ext := filepath.Ext(clean); ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			if contentType == "application/octet-stream" || strings.HasPrefix(contentType, "text/plain") {
				contentType = mimeType
			}
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.Copy(w, f)
}
