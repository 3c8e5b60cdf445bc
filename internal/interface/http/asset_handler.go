package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/infrastructure/gcs"
	"github.com/oksasatya/go-account-service/pkg/response"
)

// AssetOpener is satisfied by *gcs.AssetStore.
type AssetOpener interface {
	Open(ctx context.Context, kind, name string) (*gcs.Asset, error)
}

type AssetHandler struct {
	Store  AssetOpener
	Logger *logrus.Logger
}

func NewAssetHandler(store AssetOpener, logger *logrus.Logger) *AssetHandler {
	return &AssetHandler{Store: store, Logger: logger}
}

// Image GET /api/images/:kind/:file
func (h *AssetHandler) Image(c *gin.Context) {
	asset, err := h.Store.Open(c.Request.Context(), c.Param("kind"), c.Param("file"))
	if err != nil {
		if errors.Is(err, gcs.ErrAssetNotFound) {
			response.Error(c, http.StatusNotFound, "image not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("file", c.Param("file")).Error("open asset failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	defer asset.Body.Close()

	ct := asset.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, asset.Size, ct, asset.Body, nil)
}
