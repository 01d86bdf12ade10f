package handlers

import (
	"encoding/json"
	"net/http"
	"path"
	"time"

	"github.com/estate-ease/api/internal/models"
	"github.com/estate-ease/api/internal/repositories"
	"github.com/estate-ease/api/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const presignExpiry = 15 * time.Minute

type UploadHandler struct {
	Storage *repositories.Storage
	Log     *zap.Logger
}

type presignedUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

// POST /api/upload/presign
// PresignUploads godoc
// @Summary Presign direct uploads for listing images
// @Description Returns one presigned PUT URL per requested file, up to the per-listing image cap.
// @Tags Uploads
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.ErrorBody
// @Router /api/upload/presign [post]
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Files []struct {
			Name string `json:"name"`
		} `json:"files"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.Files) == 0 || len(input.Files) > models.MaxImageURLs {
		utils.JSONError(w, http.StatusBadRequest, "Between 1 and 6 files can be presigned per request")
		return
	}

	uploads := make([]presignedUpload, len(input.Files))
	g, ctx := errgroup.WithContext(r.Context())
	for i, file := range input.Files {
		key := "listings/" + uuid.New().String() + "/" + path.Base(file.Name)
		g.Go(func() error {
			url, err := h.Storage.PresignPut(ctx, key, presignExpiry)
			if err != nil {
				return err
			}
			uploads[i] = presignedUpload{
				Key:       key,
				UploadURL: url,
				PublicURL: h.Storage.PublicURL(key),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.Log.Error("presign uploads", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to presign uploads")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Uploads presigned successfully",
		Data:    map[string]any{"uploads": uploads, "expiresIn": presignExpiry.String()},
	})
}
