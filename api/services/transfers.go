package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/csvio"
	"github.com/usario/creators-services/models"
)

const maxUploadSize = 10 << 20

// uploadBody returns the CSV payload, either the multipart "file" field or
// the raw request body.
func uploadBody(r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file field: %w", err)
		}
		return file, nil
	}
	return r.Body, nil
}

// ImportInfluencersService bulk adds influencers for a client from a CSV
// upload. Rows that cannot be added are reported, never fatal.
func ImportInfluencersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	clientParam := r.URL.Query().Get("client_id")
	if clientParam == "" {
		clientParam = r.FormValue("client_id")
	}
	if clientParam == "" {
		WriteError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	clientID, err := uuid.Parse(clientParam)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid client_id")
		return
	}

	allowed, err := canAccessClient(r.Context(), svc, claims, userID, clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check client access")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !allowed {
		logger.Warn().Str("client_id", clientID.String()).Msg("Access denied for this client")
		WriteError(w, http.StatusForbidden, "Access denied for this client")
		return
	}

	body, err := uploadBody(r)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid upload")
		WriteError(w, http.StatusBadRequest, "A CSV file is required")
		return
	}
	defer body.Close()

	existing, err := svc.DB.ClientEmails(r.Context(), clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve client emails")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	rows, rowErrors, err := csvio.Parse(body, existing)
	if err != nil {
		logger.Warn().Err(err).Msg("Unreadable CSV upload")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := models.ImportResponse{Added: []models.Influencer{}, Errors: []string{}}
	resp.Errors = append(resp.Errors, rowErrors...)
	for _, row := range rows {
		inf, err := svc.DB.CreateInfluencer(r.Context(), newInfluencer(row.Influencer, clientID, userID))
		if errors.Is(err, db.ErrConflict) {
			resp.Errors = append(resp.Errors, csvio.DuplicateMessage(row.Number, row.Influencer.BusinessEmail))
			continue
		}
		if err != nil {
			logger.Error().Err(err).Int("row", row.Number).Msg("Failed to import row")
			resp.Errors = append(resp.Errors, fmt.Sprintf("Row %d: Could not be saved. Skipping.", row.Number))
			continue
		}
		resp.Added = append(resp.Added, *inf)
	}

	status := http.StatusOK
	switch {
	case len(resp.Added) > 0:
		status = http.StatusCreated
		resp.Message = fmt.Sprintf("%d influencers added from CSV!", len(resp.Added))
	default:
		resp.Message = "No new influencers were added from the CSV. Check for duplicates or format issues."
	}

	logger.Info().Str("client_id", clientID.String()).Int("added", len(resp.Added)).
		Int("errors", len(resp.Errors)).Msg("CSV import finished")
	WriteResponse(w, status, resp)
}

// ExportInfluencersService downloads influencers as CSV. Admin only.
func ExportInfluencersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	q := r.URL.Query()

	exportType := q.Get("type")
	if exportType == "" {
		exportType = csvio.ExportAll
	}
	if !csvio.ValidExportType(exportType) {
		WriteError(w, http.StatusBadRequest, "type must be one of all, submitted, pending")
		return
	}

	var filter models.InfluencerFilter
	switch exportType {
	case csvio.ExportSubmitted:
		submitted := true
		filter.Submitted = &submitted
	case csvio.ExportPending:
		submitted := false
		filter.Submitted = &submitted
	}
	if v := q.Get("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid client_id")
			return
		}
		filter.ClientID = &id
	}

	archive := false
	if v := q.Get("archive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid archive")
			return
		}
		archive = b
	}
	if archive && svc.Archive == nil {
		WriteError(w, http.StatusServiceUnavailable, "Export archive is not configured")
		return
	}

	influencers, err := svc.DB.ListInfluencers(r.Context(), filter)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve influencers")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(influencers) == 0 {
		WriteError(w, http.StatusNotFound, "No data to export")
		return
	}

	var buf bytes.Buffer
	if err := csvio.WriteInfluencers(&buf, influencers); err != nil {
		logger.Error().Err(err).Msg("Failed to write CSV")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := csvio.Filename(exportType)
	if archive {
		key, err := svc.Archive.Store(r.Context(), filename, "text/csv", buf.Bytes())
		if err != nil {
			logger.Error().Err(err).Msg("Failed to archive export")
			WriteError(w, http.StatusBadGateway, "Failed to archive export")
			return
		}
		w.Header().Set("X-Export-Location", key)
		logger.Info().Str("key", key).Msg("Export archived")
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "max-age=0")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn().Err(err).Msg("Failed to write export response")
	}
}
